// Package config loads the engine configuration: YAML file with defaults,
// overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Planner  PlannerConfig  `yaml:"planner"`
	Campaign CampaignConfig `yaml:"campaign"`
	Rules    RulesConfig    `yaml:"rules"`
	Script   ScriptConfig   `yaml:"script"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// Campaign endpoints are rate limited since each request can fan out
	// into many planner calls.
	CampaignRatePerSec float64 `yaml:"campaign_rate_per_sec"`
	CampaignBurst      int     `yaml:"campaign_burst"`
}

// PlannerConfig configures the LLM planner.
type PlannerConfig struct {
	Provider string `yaml:"provider"` // gemini, offline
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// CampaignConfig configures campaign defaults.
type CampaignConfig struct {
	DefaultMaxSteps int `yaml:"default_max_steps"`
}

// RulesConfig configures the emergence-rule file watcher.
type RulesConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ScriptConfig configures the embedded script runner.
type ScriptConfig struct {
	Timeout     string `yaml:"timeout"`
	ArtifactDir string `yaml:"artifact_dir"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			CampaignRatePerSec: 1,
			CampaignBurst:      2,
		},
		Planner: PlannerConfig{
			Provider: "offline",
		},
		Campaign: CampaignConfig{
			DefaultMaxSteps: 5,
		},
		Rules: RulesConfig{
			Path: "rules.yaml",
		},
		Script: ScriptConfig{
			Timeout:     "30s",
			ArtifactDir: os.TempDir(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file over the defaults. A missing
// file is not an error; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. An API key in
// the environment also flips the planner provider to gemini.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Planner.APIKey = key
		c.Planner.Provider = "gemini"
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.Planner.APIKey == "" {
		c.Planner.APIKey = key
		c.Planner.Provider = "gemini"
	}
	if addr := os.Getenv("MMSS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("MMSS_RULES"); path != "" {
		c.Rules.Path = path
	}
}
