package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pocketbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"pocketbook"`
		SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
		// Migrate runs the embedded migrations on startup.
		Migrate bool `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Budget struct {
		Monthly decimal.Decimal `envconfig:"MONTHLY_BUDGET" default:"1000.00"`
	}

	Import struct {
		MaxUploadBytes          int64  `envconfig:"IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
		DateFormat              string `envconfig:"IMPORT_DATE_FORMAT" default:""`
		CreateMissingCategories bool   `envconfig:"IMPORT_CREATE_MISSING_CATEGORIES" default:"true"`
		DefaultKind             string `envconfig:"IMPORT_DEFAULT_KIND" default:"expense"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Budget.Monthly.IsNegative() {
		return nil, fmt.Errorf("monthly budget must not be negative, got %s", cfg.Budget.Monthly)
	}

	return &cfg, nil
}
