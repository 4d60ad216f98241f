// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`

	Database struct {
		// Driver selects the SQL dialect: "postgres" or "sqlite".
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`

	Workers int `yaml:"workers"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Bridge struct {
		// DefaultAgencyID is the operator override for implicit group
		// ownership. 0 means unset.
		DefaultAgencyID int64 `yaml:"default_agency_id"`
		// PlaceholderName is used when an observed group has no display name.
		PlaceholderName string `yaml:"placeholder_name"`
	} `yaml:"bridge"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Bridge.PlaceholderName == "" {
		cfg.Bridge.PlaceholderName = "Unnamed Group"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	return cfg, nil
}
