// Package config loads refreshd's configuration from environment
// variables, applying defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
)

// Config is the full configuration surface of the orchestrator.
type Config struct {
	Database   DatabaseConfig
	NodeAPI    NodeAPIConfig
	Poll       PollConfig
	Watcher    WatcherConfig
	Recovery   RecoveryConfig
	Monitoring MonitoringConfig
	Logging    LoggingConfig
	Shutdown   ShutdownConfig
}

// DatabaseConfig contains database connection settings. Kept
// host/port/user/password/database/ssl_mode shaped so pgutil.ConnectDB
// and the testcontainers harness can build it directly.
type DatabaseConfig struct {
	Host           string `default:"localhost"`
	Port           int    `default:"5432"`
	User           string `default:"refreshd"`
	Password       string
	Database       string `default:"refreshd"`
	SSLMode        string `default:"disable"`
	MinConnections int    `default:"2"`
	MaxConnections int    `default:"10"`
}

// NodeAPIConfig points at the HTTP node this orchestrator refreshes
// wallets against.
type NodeAPIConfig struct {
	BaseURL string        `default:"http://localhost:8000"`
	Timeout time.Duration `default:"60s"`
}

// PollConfig controls the orchestrator's and each wallet worker's
// poll cadence.
type PollConfig struct {
	Interval               time.Duration `default:"1s"`
	WalletWorkerInterval    time.Duration `default:"5s"`
	WalletWorkerIdleTimeout time.Duration `default:"60s"`
	RefreshInterval         time.Duration `default:"30s"`
	MaxWalletWorkers        int           `default:"50"`
	ReapInterval            time.Duration `default:"10s"`
	HeartbeatInterval       time.Duration `default:"30s"`
}

// WatcherConfig controls retry and TTL behaviour of jobs and watchers.
type WatcherConfig struct {
	MaxRefreshRetries        int           `default:"10"`
	RetryDelayBase           time.Duration `default:"5s"`
	WatcherTTL               time.Duration `default:"86400s"`
	InvoiceCreatedWatcherTTL time.Duration `default:"180s"`
	WalletLockTTL            time.Duration `default:"30s"`
	DurationRcvTransfer      time.Duration `default:"3600s"`
}

// RecoveryConfig toggles startup recovery of orphaned watchers.
type RecoveryConfig struct {
	Enabled bool `default:"true"`
}

// MonitoringConfig contains the metrics/health server address.
type MonitoringConfig struct {
	Addr string `default:":9090"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `default:"info"`
	Format     string `default:"json"`
	OutputPath string `default:"stdout"`
}

// ShutdownConfig bounds the orchestrator's graceful drain.
type ShutdownConfig struct {
	Timeout time.Duration `default:"30s"`
}

// Load builds a Config from struct-tag defaults overlaid with
// environment variables, following the enumerated keys of the
// orchestrator's configuration surface.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	overlayString(&cfg.Database.Host, "POSTGRES_HOST")
	if err := overlayInt(&cfg.Database.Port, "POSTGRES_PORT"); err != nil {
		return nil, err
	}
	overlayString(&cfg.Database.User, "POSTGRES_USER")
	overlayString(&cfg.Database.Password, "POSTGRES_PASSWORD")
	overlayString(&cfg.Database.Database, "POSTGRES_DB")
	overlayString(&cfg.Database.SSLMode, "POSTGRES_SSL_MODE")
	if err := overlayInt(&cfg.Database.MinConnections, "POSTGRES_MIN_CONNECTIONS"); err != nil {
		return nil, err
	}
	if err := overlayInt(&cfg.Database.MaxConnections, "POSTGRES_MAX_CONNECTIONS"); err != nil {
		return nil, err
	}
	if url := os.Getenv("POSTGRES_URL"); url != "" {
		if err := applyConnectionURL(&cfg.Database, url); err != nil {
			return nil, fmt.Errorf("parse POSTGRES_URL: %w", err)
		}
	}

	overlayString(&cfg.NodeAPI.BaseURL, "API_URL")
	if err := overlayDuration(&cfg.NodeAPI.Timeout, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}

	if err := overlayDuration(&cfg.Poll.Interval, "POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Poll.WalletWorkerInterval, "WALLET_WORKER_POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Poll.WalletWorkerIdleTimeout, "WALLET_WORKER_IDLE_TIMEOUT"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Poll.RefreshInterval, "REFRESH_INTERVAL"); err != nil {
		return nil, err
	}
	if err := overlayInt(&cfg.Poll.MaxWalletWorkers, "MAX_WALLET_PROCESSES"); err != nil {
		return nil, err
	}

	if err := overlayInt(&cfg.Watcher.MaxRefreshRetries, "MAX_REFRESH_RETRIES"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Watcher.RetryDelayBase, "RETRY_DELAY_BASE"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Watcher.WatcherTTL, "WATCHER_TTL"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Watcher.InvoiceCreatedWatcherTTL, "INVOICE_CREATED_WATCHER_TTL"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Watcher.WalletLockTTL, "WALLET_LOCK_TTL"); err != nil {
		return nil, err
	}
	if err := overlayDuration(&cfg.Watcher.DurationRcvTransfer, "DURATION_RCV_TRANSFER"); err != nil {
		return nil, err
	}

	if err := overlayBool(&cfg.Recovery.Enabled, "ENABLE_RECOVERY"); err != nil {
		return nil, err
	}

	overlayString(&cfg.Monitoring.Addr, "METRICS_ADDR")
	overlayString(&cfg.Logging.Level, "LOG_LEVEL")
	overlayString(&cfg.Logging.Format, "LOG_FORMAT")
	if err := overlayDuration(&cfg.Shutdown.Timeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.NodeAPI.BaseURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if cfg.Poll.MaxWalletWorkers <= 0 {
		return fmt.Errorf("MAX_WALLET_PROCESSES must be positive")
	}
	return nil
}

func overlayString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func overlayBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func overlayDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	// bare seconds ("30") or a Go duration string ("30s") are both accepted.
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// GetConnectionString returns a PostgreSQL DSN for the store's connection.
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
