package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	APIBaseURL         string        `mapstructure:"api_base_url"`
	HeroesPath         string        `mapstructure:"heroes_path"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	EncodeSearchTerm   bool          `mapstructure:"encode_search_term"`

	MessageStoreType       string        `mapstructure:"message_store_type"`
	MessageStorePath       string        `mapstructure:"message_store_path"`
	MessageTTLSeconds      int64         `mapstructure:"message_ttl_seconds"`
	MessageCleanupSeconds  int64         `mapstructure:"message_cleanup_interval_seconds"`
	MessageTTL             time.Duration `mapstructure:"-"`
	MessageCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	ServerAddr       string `mapstructure:"server_addr"`
	ServerStorage    string `mapstructure:"server_storage"`
	ServerSQLitePath string `mapstructure:"server_sqlite_path"`
	ServerSeedFile   string `mapstructure:"server_seed_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "tour-of-heroes")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("heroes_path", "api/heroes")
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("encode_search_term", false)
	v.SetDefault("message_store_type", "bbolt")
	v.SetDefault("message_store_path", "./data/messages.db")
	v.SetDefault("message_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("message_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("server_storage", "memory")
	v.SetDefault("server_sqlite_path", "./data/heroes.db")
	v.SetDefault("server_seed_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates raw values and derives the duration fields.
func (c *Config) normalize() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return fmt.Errorf("invalid api_base_url (must not be empty)")
	}
	c.HeroesPath = strings.Trim(strings.TrimSpace(c.HeroesPath), "/")
	if c.HeroesPath == "" {
		return fmt.Errorf("invalid heroes_path (must not be empty)")
	}

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.MessageTTLSeconds <= 0 {
		return fmt.Errorf("invalid message_ttl_seconds (must be positive seconds)")
	}
	if c.MessageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid message_cleanup_interval_seconds (must be positive seconds)")
	}
	c.MessageTTL = time.Duration(c.MessageTTLSeconds) * time.Second
	c.MessageCleanupInterval = time.Duration(c.MessageCleanupSeconds) * time.Second

	switch strings.ToLower(strings.TrimSpace(c.ServerStorage)) {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("invalid server_storage %q (expected memory or sqlite)", c.ServerStorage)
	}
	return nil
}
