// Package config loads the YAML configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Garmin    GarminConfig    `yaml:"garmin"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// GarminConfig holds the provider credentials. Empty credentials mean the
// process runs read-only, serving already synced data.
type GarminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TokenDir string `yaml:"token_dir"`
}

// Configured reports whether provider credentials are present.
func (g GarminConfig) Configured() bool {
	return g.Username != "" && g.Password != ""
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix STRIDEFLOW_ and underscore-separated
// paths:
//
//	STRIDEFLOW_SERVER_HOST, STRIDEFLOW_SERVER_PORT,
//	STRIDEFLOW_DB_HOST, STRIDEFLOW_DB_PORT, STRIDEFLOW_DB_NAME,
//	STRIDEFLOW_DB_USER, STRIDEFLOW_DB_PASSWORD, STRIDEFLOW_DB_SSLMODE,
//	STRIDEFLOW_AUTH_API_KEY,
//	STRIDEFLOW_GARMIN_USERNAME, STRIDEFLOW_GARMIN_PASSWORD,
//	STRIDEFLOW_GARMIN_TOKEN_DIR,
//	STRIDEFLOW_TS_HOSTNAME, STRIDEFLOW_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRIDEFLOW_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STRIDEFLOW_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STRIDEFLOW_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("STRIDEFLOW_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("STRIDEFLOW_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("STRIDEFLOW_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("STRIDEFLOW_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("STRIDEFLOW_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("STRIDEFLOW_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("STRIDEFLOW_GARMIN_USERNAME"); v != "" {
		cfg.Garmin.Username = v
	}
	if v := os.Getenv("STRIDEFLOW_GARMIN_PASSWORD"); v != "" {
		cfg.Garmin.Password = v
	}
	if v := os.Getenv("STRIDEFLOW_GARMIN_TOKEN_DIR"); v != "" {
		cfg.Garmin.TokenDir = v
	}
	if v := os.Getenv("STRIDEFLOW_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("STRIDEFLOW_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Garmin.Username != "" && c.Garmin.Password == "" {
		return fmt.Errorf("garmin.password is required when garmin.username is set")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
