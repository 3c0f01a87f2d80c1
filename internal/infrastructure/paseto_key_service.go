package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aidanwoods.dev/go-paseto/v2"
	"github.com/hashicorp/vault/api"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const (
	vaultKeyField        = "public_key"
	vaultKeyVersionField = "version"
)

var errInvalidVaultKey = errors.New("invalid PASETO key secret")

type (
	// PasetoKeyService hands out the public key that verifies submission tokens.
	// The key is read from Vault and cached for AuthConfig.KeyCacheTTL; the
	// configured fallback key is used while Vault cannot serve one.
	PasetoKeyService struct {
		config      config.AuthConfig
		secretsRepo ports.SecretsRepository
		logger      Logger
		now         func() time.Time

		mu         sync.RWMutex
		cached     *paseto.V4AsymmetricPublicKey
		expiry     time.Time
		keyVersion string
	}
)

var _ ports.KeyService = (*PasetoKeyService)(nil)

func NewPasetoKeyService(
	cfg config.AuthConfig,
	secretsRepo ports.SecretsRepository,
	logger Logger,
) *PasetoKeyService {
	return &PasetoKeyService{
		config:      cfg,
		secretsRepo: secretsRepo,
		logger:      Logger{Logger: logger.With().Str("component", "paseto_keys").Logger()},
		now:         time.Now,
	}
}

func (s *PasetoKeyService) GetPublicKey(ctx context.Context) (paseto.V4AsymmetricPublicKey, error) {
	if !s.config.UseVaultKeys {
		return s.fallbackKey()
	}

	if key, ok := s.cachedKey(); ok {
		return key, nil
	}

	return s.load(ctx, false)
}

func (s *PasetoKeyService) RefreshKey(ctx context.Context) error {
	_, err := s.load(ctx, true)

	return err
}

// KeyVersion returns the version label of the cached Vault key, if any.
func (s *PasetoKeyService) KeyVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.keyVersion
}

func (s *PasetoKeyService) cachedKey() (paseto.V4AsymmetricPublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil || !s.now().Before(s.expiry) {
		return paseto.V4AsymmetricPublicKey{}, false
	}

	return *s.cached, true
}

func (s *PasetoKeyService) load(ctx context.Context, force bool) (paseto.V4AsymmetricPublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed the key while we waited for the lock.
	if !force && s.cached != nil && s.now().Before(s.expiry) {
		return *s.cached, nil
	}

	secret, err := s.secretsRepo.GetSecrets(ctx, s.config.PasetoKeyPath)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.config.PasetoKeyPath).Msg("failed to read PASETO key from Vault")

		return s.fallbackKey()
	}

	key, version, err := parseVaultKey(secret)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.config.PasetoKeyPath).Msg("unusable PASETO key in Vault")

		return s.fallbackKey()
	}

	s.cached = &key
	s.expiry = s.now().Add(s.config.KeyCacheTTL)
	s.keyVersion = version

	s.logger.Info().
		Str("key_version", version).
		Time("expiry", s.expiry).
		Msg("PASETO public key cached")

	return key, nil
}

func (s *PasetoKeyService) fallbackKey() (paseto.V4AsymmetricPublicKey, error) {
	key, err := paseto.NewV4AsymmetricPublicKeyFromHex(s.config.FallbackKeyHex)
	if err != nil {
		return paseto.V4AsymmetricPublicKey{}, fmt.Errorf("failed to create fallback PASETO public key: %w", err)
	}

	s.logger.Warn().Msg("using fallback PASETO public key")

	return key, nil
}

// parseVaultKey reads a KV v2 secret holding a hex encoded V4 public key.
func parseVaultKey(secret *api.Secret) (paseto.V4AsymmetricPublicKey, string, error) {
	if secret == nil || secret.Data == nil {
		return paseto.V4AsymmetricPublicKey{}, "", fmt.Errorf("%w: empty secret", errInvalidVaultKey)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return paseto.V4AsymmetricPublicKey{}, "", fmt.Errorf("%w: data field is not a map", errInvalidVaultKey)
	}

	publicKeyHex, _ := data[vaultKeyField].(string)
	if publicKeyHex == "" {
		return paseto.V4AsymmetricPublicKey{}, "", fmt.Errorf("%w: %s is missing", errInvalidVaultKey, vaultKeyField)
	}

	version, _ := data[vaultKeyVersionField].(string)
	if version == "" {
		version = "unknown"
	}

	key, err := paseto.NewV4AsymmetricPublicKeyFromHex(publicKeyHex)
	if err != nil {
		return paseto.V4AsymmetricPublicKey{}, "", fmt.Errorf("%w: %w", errInvalidVaultKey, err)
	}

	return key, version, nil
}
