package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"zerosugar/explorer/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Menu    MenuConfig    `mapstructure:"menu"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	AllowAllOrigins bool   `mapstructure:"allow_all_origins"`
	// PageTTL is how long, in seconds, a rendered page keeps its catalog
	// snapshot for live search and uploads.
	PageTTL int `mapstructure:"page_ttl"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s ServerConfig) PageTTLDuration() time.Duration {
	return time.Duration(s.PageTTL) * time.Second
}

// APIConfig holds the catalog API configuration. BaseURL is a full URL and
// every endpoint path is joined onto it.
type APIConfig struct {
	BaseURL                string   `mapstructure:"base_url"`
	ImageBaseURL           string   `mapstructure:"image_base_url"`
	Timeout                int      `mapstructure:"timeout"`
	MaxRetries             int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond   int      `mapstructure:"max_requests_per_second"`
	CircuitBreakerCooldown int      `mapstructure:"circuit_breaker_cooldown"`
	Proxies                []string `mapstructure:"proxies"`
}

func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

func (a APIConfig) CooldownDuration() time.Duration {
	return time.Duration(a.CircuitBreakerCooldown) * time.Second
}

// RedisConfig holds Redis connection details for the catalog snapshot cache
type RedisConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	Database    int    `mapstructure:"database"`
	SnapshotTTL int    `mapstructure:"snapshot_ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.SnapshotTTL) * time.Second
}

// MenuConfig holds the hover submenu timing
type MenuConfig struct {
	HideDelayMs int `mapstructure:"hide_delay_ms"`
}

func (m MenuConfig) HideDelay() time.Duration {
	return time.Duration(m.HideDelayMs) * time.Millisecond
}

// CatalogConfig holds the fixed navigation lists
type CatalogConfig struct {
	CategoryOrder    []string `mapstructure:"category_order"`
	Sweeteners       []string `mapstructure:"sweeteners"`
	DefaultSweetener string   `mapstructure:"default_sweetener"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config.yaml from the given directories (the working directory
// when none are given) with environment variable overrides. A missing file
// leaves the defaults in place.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn("config.yaml not found, using defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be a full http(s) URL, got %q", c.API.BaseURL)
	}
	if c.Server.Port < 0 {
		return fmt.Errorf("server.port must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.allow_all_origins", false)
	v.SetDefault("server.page_ttl", 1800)

	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.image_base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.max_retries", 2)
	v.SetDefault("api.max_requests_per_second", 50)
	v.SetDefault("api.circuit_breaker_cooldown", 60)
	v.SetDefault("api.proxies", []string{})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.snapshot_ttl", 30)

	v.SetDefault("menu.hide_delay_ms", 120)

	v.SetDefault("catalog.category_order", domain.CategoryDisplayOrder)
	v.SetDefault("catalog.sweeteners", domain.MenuSweetenerNames())
	v.SetDefault("catalog.default_sweetener", domain.DefaultSweetener.String())

	v.SetDefault("log.level", "info")
}
