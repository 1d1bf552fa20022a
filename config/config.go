package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Rates       RatesConfig       `mapstructure:"rates"`
	Store       StoreConfig       `mapstructure:"store"`
	Session     SessionConfig     `mapstructure:"session"`
	Currencies  CurrenciesConfig  `mapstructure:"currencies"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// MarketplaceConfig controls how search pages are fetched and parsed
type MarketplaceConfig struct {
	EbayBaseURL       string        `mapstructure:"ebay_base_url"`
	FlipkartBaseURL   string        `mapstructure:"flipkart_base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	EbaySkipLeading   int           `mapstructure:"ebay_skip_leading"`
}

// RatesConfig holds exchange rate API configuration
type RatesConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 disables the cache
}

// StoreConfig selects where lookup records are written
type StoreConfig struct {
	Driver      string `mapstructure:"driver"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`
}

// SessionConfig holds comparison session configuration
type SessionConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// CurrenciesConfig lists the target currencies a user may pick
type CurrenciesConfig struct {
	Supported []string `mapstructure:"supported"`
	Default   string   `mapstructure:"default"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from an explicit file, or searches the default
// paths when path is empty
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pricelens/")
	}

	// PRICELENS_STORE_DRIVER -> store.driver
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrap(err, "config: decode")
	}

	if err := validate(&config); err != nil {
		return nil, eris.Wrap(err, "config: invalid")
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables that are already set win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.request_timeout", "2m")

	// Marketplace defaults
	v.SetDefault("marketplace.ebay_base_url", "https://www.ebay.in")
	v.SetDefault("marketplace.flipkart_base_url", "https://www.flipkart.com")
	v.SetDefault("marketplace.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3")
	v.SetDefault("marketplace.timeout", "15s")
	v.SetDefault("marketplace.max_body_bytes", 4<<20)
	v.SetDefault("marketplace.max_attempts", 1)
	v.SetDefault("marketplace.requests_per_second", 0)
	v.SetDefault("marketplace.burst", 1)
	v.SetDefault("marketplace.ebay_skip_leading", 1)

	// Rates defaults
	v.SetDefault("rates.base_url", "https://api.frankfurter.app")
	v.SetDefault("rates.timeout", "10s")
	v.SetDefault("rates.cache_ttl", "0s")

	// Store defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "products.db")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)

	// Session defaults
	v.SetDefault("session.concurrency", 1)

	// Currency defaults
	v.SetDefault("currencies.supported", []string{"USD", "EUR", "GBP", "INR"})
	v.SetDefault("currencies.default", "USD")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Driver != "sqlite" && config.Store.Driver != "postgres" {
		return fmt.Errorf("store driver must be 'sqlite' or 'postgres', got: %s", config.Store.Driver)
	}

	if config.Store.Driver == "sqlite" && config.Store.SQLitePath == "" {
		return fmt.Errorf("SQLite path is required when store driver is 'sqlite'")
	}

	if config.Store.Driver == "postgres" && config.Store.PostgresURL == "" {
		return fmt.Errorf("Postgres URL is required when store driver is 'postgres' (set PRICELENS_STORE_POSTGRES_URL)")
	}

	if config.Marketplace.Timeout <= 0 {
		return fmt.Errorf("marketplace timeout must be positive, got: %s", config.Marketplace.Timeout)
	}

	if config.Rates.Timeout <= 0 {
		return fmt.Errorf("rates timeout must be positive, got: %s", config.Rates.Timeout)
	}

	if config.Marketplace.MaxAttempts < 1 {
		return fmt.Errorf("marketplace max_attempts must be at least 1, got: %d", config.Marketplace.MaxAttempts)
	}

	if config.Marketplace.EbaySkipLeading < 0 {
		return fmt.Errorf("marketplace ebay_skip_leading must not be negative, got: %d", config.Marketplace.EbaySkipLeading)
	}

	if config.Session.Concurrency < 1 {
		return fmt.Errorf("session concurrency must be at least 1, got: %d", config.Session.Concurrency)
	}

	if len(config.Currencies.Supported) == 0 {
		return fmt.Errorf("at least one supported currency is required")
	}
	supported := make(map[string]bool, len(config.Currencies.Supported))
	for i, code := range config.Currencies.Supported {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, err := currency.ParseISO(code); err != nil {
			return fmt.Errorf("unsupported currency code: %q", code)
		}
		config.Currencies.Supported[i] = code
		supported[code] = true
	}

	config.Currencies.Default = strings.ToUpper(strings.TrimSpace(config.Currencies.Default))
	if !supported[config.Currencies.Default] {
		return fmt.Errorf("default currency %q is not in the supported list", config.Currencies.Default)
	}

	return nil
}

// InitLogger builds the global zap logger from cfg
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
