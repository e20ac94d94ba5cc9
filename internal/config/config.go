package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the local bootstrap configuration. Everything that can change
// at runtime lives in the remote bot config synced from the admin API.
type Config struct {
	Admin struct {
		BaseURL  string `yaml:"base_url"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Sink struct {
		Type   string `yaml:"type"` // "onebot" or "telegram"
		OneBot struct {
			APIURL      string `yaml:"api_url"`
			AccessToken string `yaml:"access_token"`
		} `yaml:"onebot"`
		Telegram struct {
			BotToken string `yaml:"bot_token"`
		} `yaml:"telegram"`
	} `yaml:"sink"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// A local .env is optional; ignore when absent.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ADMIN_BASE_URL"); v != "" {
		cfg.Admin.BaseURL = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("SINK_TYPE"); v != "" {
		cfg.Sink.Type = v
	}
	if v := os.Getenv("ONEBOT_API_URL"); v != "" {
		cfg.Sink.OneBot.APIURL = v
	}
	if v := os.Getenv("ONEBOT_ACCESS_TOKEN"); v != "" {
		cfg.Sink.OneBot.AccessToken = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Sink.Telegram.BotToken = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Sink.Type == "" {
		cfg.Sink.Type = "onebot"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 9 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/farm_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Admin.BaseURL == "" {
		return fmt.Errorf("admin.base_url is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("admin.password is required")
	}
	switch c.Sink.Type {
	case "onebot":
		if c.Sink.OneBot.APIURL == "" {
			return fmt.Errorf("sink.onebot.api_url is required")
		}
	case "telegram":
		if c.Sink.Telegram.BotToken == "" {
			return fmt.Errorf("sink.telegram.bot_token is required")
		}
	default:
		return fmt.Errorf("sink.type must be onebot or telegram, got %q", c.Sink.Type)
	}
	return nil
}
