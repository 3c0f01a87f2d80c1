package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/kelseyhightower/envconfig"

	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const secretRetryStep = time.Second

// secretSetters maps the Vault keys the service understands onto the config.
// Unknown keys are ignored.
var secretSetters = map[string]func(cfg *ServiceConfig, value string) error{
	"POSTGRES_USERNAME": func(cfg *ServiceConfig, v string) error { cfg.Storage.Username = v; return nil },
	"POSTGRES_PASSWORD": func(cfg *ServiceConfig, v string) error { cfg.Storage.Password = v; return nil },
	"POSTGRES_HOST":     func(cfg *ServiceConfig, v string) error { cfg.Storage.Host = v; return nil },
	"POSTGRES_DATABASE": func(cfg *ServiceConfig, v string) error { cfg.Storage.Database = v; return nil },
	"POSTGRES_PORT": func(cfg *ServiceConfig, v string) error {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT: %w", err)
		}

		cfg.Storage.Port = port

		return nil
	},
	"KEYDB_PASSWORD":        func(cfg *ServiceConfig, v string) error { cfg.Cache.Password = v; return nil },
	"KEYDB_ADDR":            func(cfg *ServiceConfig, v string) error { cfg.Cache.Addr = v; return nil },
	"RABBITMQ_USERNAME":     func(cfg *ServiceConfig, v string) error { cfg.Queue.Username = v; return nil },
	"RABBITMQ_PASSWORD":     func(cfg *ServiceConfig, v string) error { cfg.Queue.Password = v; return nil },
	"RABBITMQ_VIRTUAL_HOST": func(cfg *ServiceConfig, v string) error { cfg.Queue.VirtualHost = v; return nil },
	"RABBITMQ_NODES": func(cfg *ServiceConfig, v string) error {
		nodes := make([]string, 0, strings.Count(v, ",")+1)
		for _, node := range strings.Split(v, ",") {
			if node = strings.TrimSpace(node); node != "" {
				nodes = append(nodes, node)
			}
		}

		if len(nodes) == 0 {
			return errors.New("RABBITMQ_NODES lists no broker nodes")
		}

		cfg.Queue.Nodes = nodes

		return nil
	},
	"AUTH_FALLBACK_KEY_HEX": func(cfg *ServiceConfig, v string) error { cfg.Auth.FallbackKeyHex = v; return nil },
}

// Loader handles configuration loading and reloading.
type Loader struct {
	cfg              *ServiceConfig
	secretsRepo      ports.SecretsRepository
	configSignalChan chan os.Signal
	reloadErrors     chan error
	ticker           *time.Ticker
	lastVersion      uint
}

// NewLoader creates a new config loader instance.
func NewLoader(cfg *ServiceConfig, secretsRepo ports.SecretsRepository, initialVersion uint) *Loader {
	return &Loader{
		cfg:              cfg,
		secretsRepo:      secretsRepo,
		configSignalChan: make(chan os.Signal, 1),
		reloadErrors:     make(chan error, 1),
		lastVersion:      initialVersion,
	}
}

// WatchConfigSignals monitors for SIGHUP (reload) and SIGUSR1 (dump) signals.
// It also starts a background ticker for periodic config reloading if enabled.
// It returns a channel that will receive reload errors for logging by the caller.
func (l *Loader) WatchConfigSignals(ctx context.Context) <-chan error {
	signal.Notify(l.configSignalChan, syscall.SIGHUP, syscall.SIGUSR1)

	if l.cfg.SecretStorage.Enabled && l.cfg.SecretStorage.PollInterval > 0 {
		l.ticker = time.NewTicker(l.cfg.SecretStorage.PollInterval)
	}

	go func() {
		defer signal.Stop(l.configSignalChan)
		defer close(l.configSignalChan)
		defer close(l.reloadErrors)

		if l.ticker != nil {
			defer l.ticker.Stop()
		}

		var reloadTickerChan <-chan time.Time
		if l.ticker != nil {
			reloadTickerChan = l.ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-reloadTickerChan:
				l.configSignalChan <- syscall.SIGHUP

			case sig := <-l.configSignalChan:
				switch sig {
				case syscall.SIGHUP:
					l.handleConfigReload(ctx)

				case syscall.SIGUSR1:
					l.DumpConfig()
				}
			}
		}
	}()

	return l.reloadErrors
}

// DumpConfig outputs the current configuration to stdout as JSON.
func (l *Loader) DumpConfig() {
	configJSON, err := json.MarshalIndent(l.cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error marshaling config: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stdout, "\n=== Configuration Dump ===\n%s\n=== End Configuration ===\n\n", string(configJSON))
}

// Load config from the secrets' repository.
func (l *Loader) Load(ctx context.Context, secretsRepo ports.SecretsRepository, cfg *ServiceConfig) (uint, error) {
	if !cfg.SecretStorage.Enabled {
		return 0, errors.New("secret storage is not enabled")
	}

	if err := l.authenticateVault(ctx, secretsRepo, cfg.SecretStorage); err != nil {
		return 0, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	data, err := l.loadSecretsFromPath(ctx, secretsRepo, cfg, "data")
	if err != nil {
		return 0, fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	if err := l.applySecretsToConfig(cfg, data); err != nil {
		return 0, fmt.Errorf("failed to apply secrets to config: %w", err)
	}

	metadata, err := l.loadSecretsFromPath(ctx, secretsRepo, cfg, "metadata")
	if err != nil {
		return 0, fmt.Errorf("failed to load secret metadata: %w", err)
	}

	version, err := l.getSecretVersion(metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to get secret version: %w", err)
	}

	return version, nil
}

// Init config from environment variables.
func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.AppConfig.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.AppConfig.CommitSHA = CommitSHA
	}

	if len(APIVersion) != 0 {
		cfg.AppConfig.APIVersion = APIVersion
	}

	return cfg, nil
}

func (l *Loader) authenticateVault(ctx context.Context, client ports.SecretsRepository, config SecretStorageConfig) error {
	switch strings.ToLower(config.AuthMethod) {
	case "token":
		if config.Token == "" {
			return fmt.Errorf("token is required for token auth method")
		}
		client.SetToken(config.Token)
		return nil

	case "approle":
		if config.RoleID == "" || config.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for approle auth method")
		}

		data := map[string]interface{}{
			"role_id":   config.RoleID,
			"secret_id": config.SecretID,
		}

		resp, err := client.WriteWithContext(ctx, "auth/approle/login", data)
		if err != nil {
			return fmt.Errorf("failed to authenticate via approle: %w", err)
		}

		if resp.Auth == nil {
			return fmt.Errorf("no auth info returned from Vault")
		}

		client.SetToken(resp.Auth.ClientToken)
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", config.AuthMethod)
	}
}

func (l *Loader) handleConfigReload(ctx context.Context) {
	metadata, err := l.loadSecretsFromPath(ctx, l.secretsRepo, l.cfg, "metadata")
	if err != nil {
		l.reportReloadStatus(fmt.Errorf("failed to load secret metadata: %w", err))

		return
	}

	currentVersion, err := l.getSecretVersion(metadata)
	if err != nil {
		l.reportReloadStatus(fmt.Errorf("failed to get secret version: %w", err))

		return
	}

	if currentVersion == l.lastVersion {
		return
	}

	version, err := l.Load(ctx, l.secretsRepo, l.cfg)
	if err != nil {
		l.reportReloadStatus(err)

		return
	}

	l.lastVersion = version
	l.reportReloadStatus(nil)
}

// getSecretsWithRetry reads a KV v2 path, waiting a little longer after every
// failed attempt.
func getSecretsWithRetry(ctx context.Context, secretsRepo ports.SecretsRepository, cfg *ServiceConfig, pathType, mountPath string) (*api.Secret, error) {
	path := fmt.Sprintf("apps/%s/%s", pathType, mountPath)

	ctx, cancel := context.WithTimeout(ctx, cfg.SecretStorage.Timeout)
	defer cancel()

	var (
		secret *api.Secret
		err    error
	)

	for attempt := 0; attempt <= cfg.SecretStorage.MaxRetries; attempt++ {
		secret, err = secretsRepo.GetSecrets(ctx, path)
		if err == nil {
			return secret, nil
		}

		if attempt == cfg.SecretStorage.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to read from path %s: %w", path, errors.Join(err, ctx.Err()))
		case <-time.After(time.Duration(attempt+1) * secretRetryStep):
		}
	}

	return nil, fmt.Errorf("failed to read from path %s after %d retries: %w", path, cfg.SecretStorage.MaxRetries, err)
}

func (l *Loader) getSecretVersion(metadata map[string]interface{}) (uint, error) {
	if metadata == nil {
		return 0, nil
	}

	currentVersion, ok := metadata["current_version"]
	if !ok {
		return 0, nil
	}

	switch v := currentVersion.(type) {
	case float64:
		return uint(v), nil
	case uint:
		return v, nil
	case json.Number:
		version, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("failed to parse version: %w", err)
		}

		return uint(version), nil
	default:
		return 0, fmt.Errorf("unexpected version type: %T", currentVersion)
	}
}

func (l *Loader) loadSecretsFromPath(ctx context.Context, secretsRepo ports.SecretsRepository, cfg *ServiceConfig, pathType string) (map[string]interface{}, error) {
	secret, err := getSecretsWithRetry(ctx, secretsRepo, cfg, pathType, cfg.SecretStorage.MountPath)
	if err != nil {
		return nil, err
	}

	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	// For KV v2, the response structure is: secret.Data[pathType] where pathType is "data" or "metadata"
	result, ok := secret.Data[pathType].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret format at path apps/%s/%s, missing '%s' key", pathType, cfg.SecretStorage.MountPath, pathType)
	}

	return result, nil
}

// applySecretsToConfig applies the flat key-value pairs stored in Vault.
func (l *Loader) applySecretsToConfig(cfg *ServiceConfig, data map[string]interface{}) error {
	for key, value := range data {
		if strValue, ok := value.(string); ok && strValue != "" {
			if err := l.applySecretToConfig(cfg, key, strValue); err != nil {
				return fmt.Errorf("failed to apply secret %s: %w", key, err)
			}
		}
	}

	return nil
}

func (l *Loader) applySecretToConfig(cfg *ServiceConfig, key, value string) error {
	apply, ok := secretSetters[key]
	if !ok {
		return nil
	}

	return apply(cfg, value)
}

// reportReloadStatus sends reload status (error or nil for success) to reloadErrors channel.
// It uses non-blocking send to avoid blocking if no receiver is ready.
func (l *Loader) reportReloadStatus(err error) {
	select {
	case l.reloadErrors <- err:
	default:
	}
}
