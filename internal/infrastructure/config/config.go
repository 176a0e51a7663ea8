package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Lumen Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Exchange ExchangeConfig `yaml:"exchange"`
	State    StateConfig    `yaml:"state"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains instance-specific information.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// ExchangeConfig contains MQTT exchange connection settings.
type ExchangeConfig struct {
	Broker    ExchangeBrokerConfig    `yaml:"broker"`
	Auth      ExchangeAuthConfig      `yaml:"auth"`
	QoS       int                     `yaml:"qos"`
	Reconnect ExchangeReconnectConfig `yaml:"reconnect"`
}

// ExchangeBrokerConfig contains MQTT broker connection details.
type ExchangeBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// ExchangeAuthConfig contains MQTT authentication credentials.
type ExchangeAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ExchangeReconnectConfig contains MQTT reconnection settings.
type ExchangeReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// StateConfig enables or disables the runtime state backend per owner category.
//
// A disabled backend is a supported deployment mode, not an error: reads
// against that category return no state and writes are dropped with a
// warning. See the state package for the degradation contract.
type StateConfig struct {
	Connectors StateBackendConfig `yaml:"connectors"`
	Devices    StateBackendConfig `yaml:"devices"`
	Channels   StateBackendConfig `yaml:"channels"`
}

// StateBackendConfig contains per-category state backend settings.
type StateBackendConfig struct {
	Enabled bool `yaml:"enabled"`
}

// InfluxDBConfig contains InfluxDB connection settings for property telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LUMEN_SECTION_KEY
// For example: LUMEN_DATABASE_PATH, LUMEN_EXCHANGE_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "lumen-001",
			Name: "Lumen Core",
		},
		Database: DatabaseConfig{
			Path:        "./data/lumen.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Exchange: ExchangeConfig{
			Broker: ExchangeBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "lumen-core",
			},
			QoS: 1,
			Reconnect: ExchangeReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		State: StateConfig{
			Connectors: StateBackendConfig{Enabled: true},
			Devices:    StateBackendConfig{Enabled: true},
			Channels:   StateBackendConfig{Enabled: true},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LUMEN_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("LUMEN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Exchange
	if v := os.Getenv("LUMEN_EXCHANGE_HOST"); v != "" {
		cfg.Exchange.Broker.Host = v
	}
	if v := os.Getenv("LUMEN_EXCHANGE_USERNAME"); v != "" {
		cfg.Exchange.Auth.Username = v
	}
	if v := os.Getenv("LUMEN_EXCHANGE_PASSWORD"); v != "" {
		cfg.Exchange.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("LUMEN_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Exchange.QoS < 0 || c.Exchange.QoS > 2 {
		errs = append(errs, "exchange.qos must be 0, 1, or 2")
	}

	if c.Exchange.Broker.Port < 1 || c.Exchange.Broker.Port > 65535 {
		errs = append(errs, "exchange.broker.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled (set LUMEN_INFLUXDB_TOKEN environment variable)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// BusyTimeoutDuration returns the database busy timeout as a Duration.
func (c *Config) BusyTimeoutDuration() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Second
}
