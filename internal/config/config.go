package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config root configuration
type Config struct {
	Assistant AssistantConfig `mapstructure:"assistant"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Data      DataConfig      `mapstructure:"data"`
	Session   SessionConfig   `mapstructure:"session"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Channels  ChannelsConfig  `mapstructure:"channels"`
	Log       LogConfig       `mapstructure:"log"`
}

// AssistantConfig model and loop parameters
type AssistantConfig struct {
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTurns    int     `mapstructure:"max_turns"`
}

// ProvidersConfig LLM provider settings
type ProvidersConfig struct {
	OpenAI     ProviderConfig `mapstructure:"openai"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Ollama     ProviderConfig `mapstructure:"ollama"`
}

// ProviderConfig single provider settings
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// PolicyConfig authorization rule settings
type PolicyConfig struct {
	RulesFile string `mapstructure:"rules_file"`
	HotReload bool   `mapstructure:"hot_reload"`
}

// DataConfig storage settings
type DataConfig struct {
	Dir      string `mapstructure:"dir"`
	Database string `mapstructure:"database"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

// SessionConfig conversation settings
type SessionConfig struct {
	MaxHistory int `mapstructure:"max_history"`
}

// GatewayConfig HTTP server settings
type GatewayConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Token string `mapstructure:"token"`
}

// ChannelsConfig channel settings
type ChannelsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig telegram bot settings. Identities maps a telegram user id
// to the employee email the bot acts for; unknown senders are rejected.
type TelegramConfig struct {
	Enabled    bool              `mapstructure:"enabled"`
	Token      string            `mapstructure:"token"`
	Identities map[string]string `mapstructure:"identities"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		Assistant: AssistantConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.2,
			MaxTurns:    5,
		},
		Providers: ProvidersConfig{},
		Policy: PolicyConfig{
			RulesFile: filepath.Join(dir, "rules.yaml"),
			HotReload: true,
		},
		Data: DataConfig{
			Dir:      filepath.Join(dir, "data"),
			Database: filepath.Join(dir, "data", "hr.db"),
			SeedDemo: true,
		},
		Session: SessionConfig{
			MaxHistory: 50,
		},
		Gateway: GatewayConfig{
			Host:  "0.0.0.0",
			Port:  18890,
			Token: "",
		},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{
				Enabled:    false,
				Identities: map[string]string{},
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// ConfigDir returns the hrbot config directory
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("failed to resolve home directory, using current directory as fallback", "error", err)
		homeDir = "."
	}
	return filepath.Join(homeDir, ".hrbot")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads config from file or returns defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("HRBOT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	a := &c.Assistant

	if a.MaxTurns < 0 {
		return fmt.Errorf("assistant.max_turns must not be negative, got %d", a.MaxTurns)
	}
	if a.MaxTurns == 0 {
		a.MaxTurns = 5
	}

	if a.Temperature < 0 || a.Temperature > 2.0 {
		return fmt.Errorf("assistant.temperature must be between 0 and 2.0, got %f", a.Temperature)
	}

	if a.MaxTokens <= 0 {
		return fmt.Errorf("assistant.max_tokens must be > 0, got %d", a.MaxTokens)
	}

	if c.Session.MaxHistory < 0 {
		return fmt.Errorf("session.max_history must not be negative, got %d", c.Session.MaxHistory)
	}
	if c.Session.MaxHistory == 0 {
		c.Session.MaxHistory = 50
	}

	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port must be between 1 and 65535, got %d", c.Gateway.Port)
	}

	if strings.TrimSpace(c.Policy.RulesFile) == "" {
		return fmt.Errorf("policy.rules_file must not be empty")
	}
	if strings.TrimSpace(c.Data.Database) == "" {
		return fmt.Errorf("data.database must not be empty")
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	return nil
}
