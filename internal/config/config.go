package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Yulfic/uptime-status/internal/models"
)

// Config represents configuration data for the monitoring service.
// It is loaded once at startup and treated as immutable afterwards.
type Config struct {
	Servers               []models.Target `yaml:"servers"`
	CheckIntervalSeconds  int             `yaml:"check_interval_seconds"`
	RequestTimeoutSeconds int             `yaml:"request_timeout_seconds"`
	Timezone              string          `yaml:"timezone"`
	DataDirectory         string          `yaml:"data_directory"`
	Listen                string          `yaml:"listen"`
	Alerts                Alerts          `yaml:"alerts"`
}

// Alerts configures optional email notifications on status changes.
type Alerts struct {
	Enabled         bool   `yaml:"enabled"`
	APIKey          string `yaml:"api_key"`
	From            string `yaml:"from"`
	To              string `yaml:"to"`
	CooldownMinutes int    `yaml:"cooldown_minutes"`
}

// DefaultConfig returns sensible defaults in case no configuration file is provided.
func DefaultConfig() Config {
	return Config{
		CheckIntervalSeconds:  60,
		RequestTimeoutSeconds: 5,
		Timezone:              "Europe/Moscow",
		DataDirectory:         "data",
		Listen:                ":25990",
		Alerts: Alerts{
			CooldownMinutes: 15,
		},
		Servers: []models.Target{
			{
				Name: "example",
				URL:  "http://localhost:8080/health",
			},
		},
	}
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults. Environment variables override selected file values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.CheckIntervalSeconds <= 0 {
		cfg.CheckIntervalSeconds = 60
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 5
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultConfig().DataDirectory
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultConfig().Listen
	}
	if cfg.Alerts.CooldownMinutes <= 0 {
		cfg.Alerts.CooldownMinutes = 15
	}
	if len(cfg.Servers) == 0 {
		return Config{}, errors.New("configuration must define at least one server")
	}
	seen := make(map[string]struct{}, len(cfg.Servers))
	for i, s := range cfg.Servers {
		if s.Name == "" {
			return Config{}, fmt.Errorf("server %d is missing name", i)
		}
		if s.URL == "" {
			return Config{}, fmt.Errorf("server %s url is required", s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return Config{}, fmt.Errorf("duplicate server name %s", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	if cfg.Alerts.Enabled {
		if cfg.Alerts.APIKey == "" {
			return Config{}, errors.New("alerts enabled but api_key is empty")
		}
		if cfg.Alerts.From == "" || cfg.Alerts.To == "" {
			return Config{}, errors.New("alerts enabled but from/to address is empty")
		}
	}
	return cfg, nil
}

// TargetNames returns configured server names in configuration order.
func (c Config) TargetNames() []string {
	names := make([]string, 0, len(c.Servers))
	for _, s := range c.Servers {
		names = append(names, s.Name)
	}
	return names
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("UPTIME_LISTEN")); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("UPTIME_DATA_DIR")); v != "" {
		cfg.DataDirectory = v
	}
	if v := strings.TrimSpace(os.Getenv("UPTIME_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(os.Getenv("BREVO_API_KEY")); v != "" {
		cfg.Alerts.APIKey = v
	}
}
