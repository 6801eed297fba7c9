package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Granja"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Store struct {
		// Driver is postgres or memory.
		Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"granja"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Ledger struct {
		BaseCurrency         string        `envconfig:"LEDGER_BASE_CURRENCY" default:"USD"`
		NearExpiryDays       int           `envconfig:"LEDGER_NEAR_EXPIRY_DAYS" default:"7"`
		DefaultMarkup        string        `envconfig:"LEDGER_DEFAULT_MARKUP" default:"1.3"`
		DefaultShelfLifeDays int           `envconfig:"LEDGER_DEFAULT_SHELF_LIFE_DAYS" default:"365"`
		ExactRestore         bool          `envconfig:"LEDGER_EXACT_RESTORE" default:"false"`
		SweepInterval        time.Duration `envconfig:"LEDGER_SWEEP_INTERVAL" default:"0"`
	}

	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		LockTTL  time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LedgerConfig converts the ledger settings into the engine configuration.
func (c *Config) LedgerConfig() (inventory.Config, error) {
	markup, err := decimal.NewFromString(c.Ledger.DefaultMarkup)
	if err != nil {
		return inventory.Config{}, fmt.Errorf("parsing LEDGER_DEFAULT_MARKUP: %w", err)
	}

	if !markup.IsPositive() {
		return inventory.Config{}, fmt.Errorf("LEDGER_DEFAULT_MARKUP must be positive, got %s", markup)
	}

	if c.Ledger.NearExpiryDays < 0 {
		return inventory.Config{}, fmt.Errorf("LEDGER_NEAR_EXPIRY_DAYS must not be negative, got %d", c.Ledger.NearExpiryDays)
	}

	return inventory.Config{
		BaseCurrency:         c.Ledger.BaseCurrency,
		NearExpiryDays:       c.Ledger.NearExpiryDays,
		DefaultMarkup:        markup,
		DefaultShelfLifeDays: c.Ledger.DefaultShelfLifeDays,
		ExactRestore:         c.Ledger.ExactRestore,
	}, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
