package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Registry   RegistryConfig   `yaml:"registry"`
	Logging    LoggingConfig    `yaml:"logging"`
	Push       PushConfig       `yaml:"push"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// AlertsConfig controls the monthly budget alert.
type AlertsConfig struct {
	// MonthlyBudget is the total monthly cost above which subscribers are
	// notified. Zero disables alerts.
	MonthlyBudget        float64       `yaml:"monthly_budget"`
	CheckIntervalSeconds int           `yaml:"check_interval_seconds"`
	CheckInterval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the response cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// StorageConfig selects and configures the key-value durability layer.
type StorageConfig struct {
	// Driver is one of "sqlite", "postgres" or "file".
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	Path                   string `yaml:"path"` // used by the file driver
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// RegistryConfig holds appliance registry behaviour.
type RegistryConfig struct {
	UpdatePolicy string `yaml:"update_policy"` // ignore_falsy | apply_present
	SeedExamples bool   `yaml:"seed_examples"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := Config{WorkerPool: WorkerPoolConfig{Size: 1}}
	_ = cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	switch cfg.Storage.Driver {
	case "":
		cfg.Storage.Driver = "sqlite"
	case "sqlite", "postgres", "file":
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "energy.db"
	}
	if cfg.Storage.Driver == "postgres" && cfg.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for the postgres driver")
	}
	if cfg.Storage.Driver == "file" && cfg.Storage.Path == "" {
		cfg.Storage.Path = "energy.json"
	}

	switch cfg.Registry.UpdatePolicy {
	case "":
		cfg.Registry.UpdatePolicy = "ignore_falsy"
	case "ignore_falsy", "apply_present":
	default:
		return fmt.Errorf("unsupported registry.update_policy %q", cfg.Registry.UpdatePolicy)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Alerts.CheckIntervalSeconds <= 0 {
		cfg.Alerts.CheckIntervalSeconds = 60
	}
	cfg.Alerts.CheckInterval = time.Duration(cfg.Alerts.CheckIntervalSeconds) * time.Second

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
	return nil
}
