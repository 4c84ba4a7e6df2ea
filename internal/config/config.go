// Package config loads server settings from an optional TOML file and
// BUDGETWISE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Log      LogConfig
	AI       AIConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Env        string // development, production
	Port       int
	StaticPath string
}

// DatabaseConfig holds the sqlite file location
type DatabaseConfig struct {
	Path string
}

// SessionConfig holds session token settings
type SessionConfig struct {
	Secret string
	TTL    time.Duration

	// VerifyURL, when set, makes the server verify sessions through a
	// separate verify-session endpoint instead of in process.
	VerifyURL     string
	VerifyTimeout time.Duration
}

// CookieConfig holds session cookie attributes
type CookieConfig struct {
	Secure bool
	Domain string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// AIConfig holds generative AI settings. An empty APIKey disables AI features.
type AIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with BUDGETWISE_ prefix (e.g., BUDGETWISE_SESSION_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/budgetwise")

	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BUDGETWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:        v.GetString("app.env"),
			Port:       v.GetInt("app.port"),
			StaticPath: v.GetString("app.static_path"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Session: SessionConfig{
			Secret:        v.GetString("session.secret"),
			TTL:           v.GetDuration("session.ttl"),
			VerifyURL:     v.GetString("session.verify_url"),
			VerifyTimeout: v.GetDuration("session.verify_timeout"),
		},
		Cookie: CookieConfig{
			Domain: v.GetString("cookie.domain"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("ai.api_key"),
			Model:   v.GetString("ai.model"),
			Timeout: v.GetDuration("ai.timeout"),
		},
	}

	// Secure cookies follow the environment unless set explicitly.
	if v.IsSet("cookie.secure") {
		cfg.Cookie.Secure = v.GetBool("cookie.secure")
	} else {
		cfg.Cookie.Secure = cfg.IsProduction()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.static_path", "./static")
	v.SetDefault("database.path", "./data/budgetwise.db")
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.verify_timeout", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 20*time.Second)
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.VerifyURL != "" && c.Session.VerifyTimeout <= 0 {
		return fmt.Errorf("session.verify_timeout must be positive when session.verify_url is set")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	// Production-specific validations
	if c.IsProduction() {
		if c.Session.Secret == "" {
			return fmt.Errorf("session.secret is required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
		}
	}

	return nil
}
