// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	Port     string `env:"PORT" envDefault:"8080"`
	// APIKey guards mutating routes when set.
	APIKey string `env:"API_KEY"`

	Database Database
	Ledger   Ledger
	API      API
	Cache    Cache
	Jobs     Jobs
	Backup   Backup
}

// Database selects and addresses the document store.
type Database struct {
	Driver        string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path          string `env:"DB_PATH" envDefault:"patrimony.db"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER" envDefault:"patrimony"`
	Password      string `env:"DB_PASSWORD" envDefault:"patrimony"`
	Name          string `env:"DB_NAME" envDefault:"patrimony"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// Ledger holds the engine defaults.
type Ledger struct {
	StorageKey   string  `env:"STORAGE_KEY" envDefault:"patrimony-holdings-v2"`
	DefaultOwner string  `env:"DEFAULT_OWNER" envDefault:"main"`
	EurUsdtRate  float64 `env:"EUR_USDT_RATE" envDefault:"0.86"`
	ChfEurRate   float64 `env:"CHF_EUR_RATE" envDefault:"1.05"`
}

// RatesKey is the document key of the rate parameters.
func (l Ledger) RatesKey() string {
	return l.StorageKey + "-rates"
}

// API configures the outbound price sources.
type API struct {
	Debug        bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout      time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	CoinGeckoURL string        `env:"COINGECKO_URL" envDefault:"https://api.coingecko.com/api/v3"`
	YahooURL     string        `env:"YAHOO_URL" envDefault:"https://query1.finance.yahoo.com"`
}

// Cache configures the quote cache. Redis is used when Addr is set.
type Cache struct {
	QuoteTTL      time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"60s"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

// Jobs holds scheduler intervals; zero disables a job.
type Jobs struct {
	PriceRefreshInterval time.Duration `env:"PRICE_REFRESH_INTERVAL" envDefault:"0s"`
	BackupInterval       time.Duration `env:"BACKUP_INTERVAL" envDefault:"0s"`
}

// Backup selects the remote backup destination.
type Backup struct {
	GCSBucket string `env:"BACKUP_GCS_BUCKET"`
	Dir       string `env:"BACKUP_DIR"`
}

// Configured reports whether a remote backup destination is set.
func (b Backup) Configured() bool {
	return b.GCSBucket != "" || b.Dir != ""
}

var appConfig *Config

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Ledger.StorageKey == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	if c.Ledger.EurUsdtRate <= 0 || c.Ledger.ChfEurRate <= 0 {
		return fmt.Errorf("EUR_USDT_RATE and CHF_EUR_RATE must be positive")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}
