package config

import (
	"strings"
	"time"

	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

// Compile time variables are set by -ldflags.
var (
	ServiceVersion string
	CommitSHA      string
	APIVersion     string
)

const (
	Development = 1 << iota
	Sandbox
	Staging
	Production
)

type (
	ServiceConfig struct {
		AppConfig             AppConfig                   `json:"app_config"`
		Logging               LoggingConfig               `json:"logging"`
		Telemetry             Telemetry                   `json:"telemetry"`
		SecretStorage         SecretStorageConfig         `json:"secret_storage"`
		HTTPServer            HTTPServerConfig            `json:"http_server"`
		Cache                 CacheConfig                 `json:"cache"`
		Storage               StorageConfig               `json:"storage"`
		Queue                 QueueConfig                 `json:"queue"`
		Tracker               TrackerConfig               `json:"tracker"`
		Notifier              NotifierConfig              `json:"notifier"`
		ThrottledRateLimiting ThrottledRateLimitingConfig `json:"throttled_rate_limiting"`
		Backoff               BackoffConfig               `json:"backoff"`
		Auth                  AuthConfig                  `json:"auth"`
	}

	AppConfig struct {
		ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"svc-trip-planner" json:"service_name"`
		ServiceVersion string `envconfig:"APP_SERVICE_VERSION" default:"0.0.0" json:"service_version"`
		CommitSHA      string `envconfig:"APP_COMMIT_SHA" default:"unknown" json:"commit_sha"`
		APIVersion     string `envconfig:"APP_API_VERSION" default:"v1" json:"api_version"`
		Env            string `envconfig:"APP_ENVIRONMENT" default:"unknown" json:"env"`
	}

	LoggingConfig struct {
		Level     string          `envconfig:"LOGGING_LEVEL" default:"info" json:"level"`
		Format    string          `envconfig:"LOGGING_FORMAT" default:"json" json:"format"`
		AccessLog AccessLogConfig `json:"access_log"`
	}

	AccessLogConfig struct {
		Enabled            bool `envconfig:"ACCESS_LOG_ENABLED" default:"true" json:"enabled"`
		LogHealthChecks    bool `envconfig:"ACCESS_LOG_HEALTH_CHECKS" default:"false" json:"log_health_checks"`
		IncludeQueryParams bool `envconfig:"ACCESS_LOG_INCLUDE_QUERY_PARAMS" default:"true" json:"include_query_params"`
	}

	Telemetry struct {
		ExporterType string `envconfig:"OTEL_EXPORTER" default:"grpc" json:"exporter_type"`

		OtelGRPCHost       string `envconfig:"OTEL_HOST" json:"otel_grpc_host"`
		OtelGRPCPort       string `envconfig:"OTEL_PORT" default:"4317" json:"otel_grpc_port"`
		OtelProductCluster string `envconfig:"OTEL_PRODUCT_CLUSTER" json:"otel_product_cluster"`

		Metrics Metrics `json:"metrics"`
		Traces  Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"false" json:"enabled"`
	}

	Traces struct {
		Enabled      bool    `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1" json:"sampler_ratio"`
	}

	SecretStorageConfig struct {
		Enabled       bool          `envconfig:"VAULT_ENABLED" default:"true" json:"enabled"`
		Address       string        `envconfig:"VAULT_ADDRESS" default:"http://vault:8200" json:"address"`
		Token         string        `envconfig:"VAULT_TOKEN" default:"bottom-Secret" json:"token,omitempty"`
		RoleID        string        `envconfig:"VAULT_ROLE_ID" default:"" json:"role_id,omitempty"`
		SecretID      string        `envconfig:"VAULT_SECRET_ID" default:"" json:"secret_id,omitempty"`
		AuthMethod    string        `envconfig:"VAULT_AUTH_METHOD" default:"token" json:"auth_method"`
		MountPath     string        `envconfig:"VAULT_MOUNT_PATH" default:"svc-trip-planner" json:"mount_path"`
		Namespace     string        `envconfig:"VAULT_NAMESPACE" default:"" json:"namespace,omitempty"`
		Timeout       time.Duration `envconfig:"VAULT_TIMEOUT" default:"30s" json:"timeout"`
		MaxRetries    int           `envconfig:"VAULT_MAX_RETRIES" default:"3" json:"max_retries"`
		TLSSkipVerify bool          `envconfig:"VAULT_TLS_SKIP_VERIFY" default:"false" json:"tls_skip_verify"`
		PollInterval  time.Duration `envconfig:"VAULT_POLL_INTERVAL" default:"24h" json:"poll_interval"`
	}

	HTTPServerConfig struct {
		Port            int           `envconfig:"HTTP_SERVER_PORT" default:"8088" json:"port"`
		Host            string        `envconfig:"HTTP_SERVER_HOST" default:"0.0.0.0" json:"host"`
		ReadTimeout     time.Duration `envconfig:"HTTP_SERVER_READ_TIMEOUT" default:"30s" json:"read_timeout"`
		WriteTimeout    time.Duration `envconfig:"HTTP_SERVER_WRITE_TIMEOUT" default:"30s" json:"write_timeout"`
		IdleTimeout     time.Duration `envconfig:"HTTP_SERVER_IDLE_TIMEOUT" default:"120s" json:"idle_timeout"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SERVER_SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`
	}

	StorageConfig struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            int           `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"trip_planner" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"password,omitempty"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"25" json:"max_open_conns"`
		MaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5" json:"max_idle_conns"`
		ConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"5m" json:"conn_max_lifetime"`
		ConnMaxIdleTime time.Duration `envconfig:"POSTGRES_CONN_MAX_IDLE_TIME" default:"5m" json:"conn_max_idle_time"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		QueryTimeout    time.Duration `envconfig:"POSTGRES_QUERY_TIMEOUT" default:"30s" json:"query_timeout"`
	}

	QueueConfig struct {
		Scheme          string        `envconfig:"RABBITMQ_SCHEME" default:"amqp" json:"scheme"`
		Nodes           []string      `envconfig:"RABBITMQ_NODES" default:"rabbitmq:5672" json:"nodes"`
		Username        string        `envconfig:"RABBITMQ_USERNAME" default:"admin" json:"username"`
		Password        string        `envconfig:"RABBITMQ_PASSWORD" default:"bottom.Secret" json:"password,omitempty"`
		VirtualHost     string        `envconfig:"RABBITMQ_VIRTUAL_HOST" default:"/" json:"virtual_host"`
		SubscriberGroup string        `envconfig:"RABBITMQ_SUBSCRIBER_GROUP" default:"" json:"subscriber_group"`
		RedeliveryDelay int           `envconfig:"RABBITMQ_REDELIVERY_DELAY_MS" default:"0" json:"redelivery_delay_ms"`
		ConfirmTimeout  time.Duration `envconfig:"RABBITMQ_CONFIRM_TIMEOUT" default:"5s" json:"confirm_timeout"`
		Heartbeat       time.Duration `envconfig:"RABBITMQ_HEARTBEAT" default:"10s" json:"heartbeat"`
		ConnectionName  string        `envconfig:"RABBITMQ_CONNECTION_NAME" default:"" json:"connection_name"`
	}

	TrackerConfig struct {
		// Group is the durable subscriber group of the job tracker.
		Group           string        `envconfig:"TRACKER_SUBSCRIBER_GROUP" default:"job-tracker" json:"group"`
		RedeliveryDelay time.Duration `envconfig:"TRACKER_REDELIVERY_DELAY" default:"5s" json:"redelivery_delay"`
	}

	NotifierConfig struct {
		Enabled          bool                 `envconfig:"NOTIFIER_ENABLED" default:"true" json:"enabled"`
		Group            string               `envconfig:"NOTIFIER_SUBSCRIBER_GROUP" default:"callback-notifier" json:"group"`
		RedeliveryDelay  time.Duration        `envconfig:"NOTIFIER_REDELIVERY_DELAY" default:"30s" json:"redelivery_delay"`
		Timeout          time.Duration        `envconfig:"NOTIFIER_TIMEOUT" default:"10s" json:"timeout"`
		MaxRetries       int                  `envconfig:"NOTIFIER_MAX_RETRIES" default:"2" json:"max_retries"`
		RetryWaitTime    time.Duration        `envconfig:"NOTIFIER_RETRY_WAIT_TIME" default:"500ms" json:"retry_wait_time"`
		MaxRetryWaitTime time.Duration        `envconfig:"NOTIFIER_MAX_RETRY_WAIT_TIME" default:"2s" json:"max_retry_wait_time"`
		UserAgent        string               `envconfig:"NOTIFIER_USER_AGENT" default:"TripPlanner/1.0" json:"user_agent"`
		CircuitBreaker   CircuitBreakerConfig `envconfig:"NOTIFIER_CIRCUIT_BREAKER" json:"circuit_breaker"`

		// AllowPrivateNetworks lets callbacks target loopback and RFC 1918 hosts.
		AllowPrivateNetworks bool `envconfig:"NOTIFIER_ALLOW_PRIVATE_NETWORKS" default:"false" json:"allow_private_networks"`
	}

	CacheConfig struct {
		Addr          string        `envconfig:"KEYDB_ADDR" default:"keydb:6379" json:"addr"`
		Password      string        `envconfig:"KEYDB_PASSWORD" default:"bottom.Secret" json:"password,omitempty"`
		DB            int           `envconfig:"KEYDB_DB" default:"0" json:"db"`
		PoolSize      int           `envconfig:"KEYDB_POOL_SIZE" default:"10" json:"pool_size"`
		MinIdleConns  int           `envconfig:"KEYDB_MIN_IDLE_CONNS" default:"3" json:"min_idle_conns"`
		DialTimeout   time.Duration `envconfig:"KEYDB_DIAL_TIMEOUT" default:"5s" json:"dial_timeout"`
		ReadTimeout   time.Duration `envconfig:"KEYDB_READ_TIMEOUT" default:"3s" json:"read_timeout"`
		WriteTimeout  time.Duration `envconfig:"KEYDB_WRITE_TIMEOUT" default:"3s" json:"write_timeout"`
		PoolTimeout   time.Duration `envconfig:"KEYDB_POOL_TIMEOUT" default:"5s" json:"pool_timeout"`
		MaxRetries    int           `envconfig:"KEYDB_MAX_RETRIES" default:"3" json:"max_retries"`
		DefaultExpiry time.Duration `envconfig:"KEYDB_DEFAULT_EXPIRY" default:"10m" json:"default_expiry"`
	}

	ThrottledRateLimitingConfig struct {
		Enabled           bool     `envconfig:"RATE_LIMITING_ENABLED" default:"true" json:"enabled"`
		RequestsPerSecond int      `envconfig:"RATE_LIMITING_REQUESTS_PER_SECOND" default:"10" json:"requests_per_second"`
		BurstSize         int      `envconfig:"RATE_LIMITING_BURST_SIZE" default:"20" json:"burst_size"`
		MaxKeys           int      `envconfig:"RATE_LIMITING_MAX_KEYS" default:"1000" json:"max_keys"`
		SkipPaths         []string `envconfig:"RATE_LIMITING_SKIP_PATHS" default:"/v1/health" json:"skip_paths"`
	}

	AuthConfig struct {
		Enabled        bool          `envconfig:"AUTH_ENABLED" default:"true" json:"enabled"`
		ValidIssuers   []string      `envconfig:"AUTH_VALID_ISSUERS" default:"trip-planner-service,auth-service" json:"valid_issuers"`
		PasetoKeyPath  string        `envconfig:"AUTH_PASETO_KEY_PATH" default:"secret/data/paseto/public-key" json:"paseto_key_path"`
		UseVaultKeys   bool          `envconfig:"AUTH_USE_VAULT_KEYS" default:"true" json:"use_vault_keys"`
		KeyCacheTTL    time.Duration `envconfig:"AUTH_KEY_CACHE_TTL" default:"1h" json:"key_cache_ttl"`
		FallbackKeyHex string        `envconfig:"AUTH_FALLBACK_KEY_HEX" default:"01c7981f62c676934dc4acfa7825205ae927960875d09abec497efbe2dba41b7" json:"fallback_key_hex,omitempty"`
		SkipPaths      []string      `envconfig:"AUTH_SKIP_PATHS" default:"/v1/health,/metrics" json:"skip_paths"`
	}

	BackoffConfig struct {
		// BaseDelay is the amount of time to backoff after the first failure.
		BaseDelay time.Duration `envconfig:"BACKOFF_BASE_DELAY" default:"1s" json:"base_delay"`
		// Multiplier is the factor with which to multiply backoffs after a
		// failed retry. Should ideally be greater than 1.
		Multiplier float64 `envconfig:"BACKOFF_MULTIPLIER" default:"1.6" json:"multiplier"`
		// Jitter is the factor with which backoffs are randomized.
		Jitter float64 `envconfig:"BACKOFF_JITTER" default:"0.2" json:"jitter"`
		// MaxDelay is the upper bound of backoff delay.
		MaxDelay    time.Duration `envconfig:"BACKOFF_MAX_DELAY" default:"10s" json:"max_delay"`
		MaxAttempts int           `envconfig:"BACKOFF_MAX_ATTEMPTS" default:"3" json:"max_attempts"`
	}

	CircuitBreakerConfig struct {
		MaxRequests uint32        `envconfig:"MAX_REQUESTS" default:"3" json:"max_requests"`
		Interval    time.Duration `envconfig:"INTERVAL" default:"10s" json:"interval"`
		Timeout     time.Duration `envconfig:"TIMEOUT" default:"60s" json:"timeout"`
	}
)

// ClientConfig maps the queue settings onto a queue client configuration.
// An empty group leaves the subscriber group from the environment in place.
func (c QueueConfig) ClientConfig(group string, redeliveryDelay time.Duration) queue.Config {
	cfg := queue.Config{
		Scheme:          c.Scheme,
		Username:        c.Username,
		Password:        c.Password,
		Hosts:           c.Nodes,
		Vhost:           c.VirtualHost,
		SubscriberGroup: strings.TrimSpace(c.SubscriberGroup),
		RedeliveryDelay: time.Duration(c.RedeliveryDelay) * time.Millisecond,
		Heartbeat:       c.Heartbeat,
		ConnectionName:  c.ConnectionName,
	}

	if group != "" {
		cfg.SubscriberGroup = group
	}

	if redeliveryDelay > 0 {
		cfg.RedeliveryDelay = redeliveryDelay
	}

	return cfg
}
