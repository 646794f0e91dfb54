package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configFilePathENV = "CONFIG_PATH"

type Config struct {
	Mudrex    MudrexConfig    `mapstructure:"mudrex"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Service   ServiceConfig   `mapstructure:"service"`
	DB        string          `mapstructure:"db_dsn"`
}

type MudrexConfig struct {
	APISecret string        `mapstructure:"api_secret"`
	BaseURL   string        `mapstructure:"base_url"`
	WSURL     string        `mapstructure:"ws_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	PageLimit int           `mapstructure:"page_limit"`
	MaxPages  int           `mapstructure:"max_pages"`
	// TTL кеша каталога; по истечении следующий читатель запускает пересборку
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

type RateLimitConfig struct {
	PerSecond int `mapstructure:"per_second"`
	PerMinute int `mapstructure:"per_minute"`
	PerHour   int `mapstructure:"per_hour"`
	PerDay    int `mapstructure:"per_day"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type TracingConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ServiceConfig struct {
	Host      string `mapstructure:"host"`
	AdminPort int    `mapstructure:"admin_port"`
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("values_local")
	v.SetConfigType("yaml")

	path := os.Getenv(configFilePathENV)
	if path == "" {
		path = "configs"
	}
	v.AddConfigPath(path)

	v.SetDefault("mudrex.base_url", "https://trading.mudrex.com/v1")
	v.SetDefault("mudrex.ws_url", "wss://trading.mudrex.com/v1/ws")
	v.SetDefault("mudrex.timeout", "30s")
	v.SetDefault("mudrex.page_limit", 50)
	v.SetDefault("mudrex.max_pages", 200)
	v.SetDefault("mudrex.catalog_ttl", "5m")
	v.SetDefault("ratelimit.per_second", 2)
	v.SetDefault("ratelimit.per_minute", 50)
	v.SetDefault("ratelimit.per_hour", 1000)
	v.SetDefault("ratelimit.per_day", 10000)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff", "500ms")
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.admin_port", 8081)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// без файла живем на дефолтах и ENV
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Mudrex.APISecret == "" {
		cfg.Mudrex.APISecret = os.Getenv("MUDREX_API_SECRET")
	}
	if cfg.Mudrex.APISecret == "" {
		return nil, fmt.Errorf("mudrex.api_secret is required (MUDREX_API_SECRET)")
	}

	return &cfg, nil
}
