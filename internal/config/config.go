package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	CORSOrigin     string `mapstructure:"CORS_ORIGIN"`

	// Database: "sqlite" (embedded, default) or "postgres"
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	// Redis: empty disables the job queue and the pub/sub event sink
	RedisURL     string `mapstructure:"REDIS_URL"`
	EventChannel string `mapstructure:"EVENT_CHANNEL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	ReportEmail  string `mapstructure:"REPORT_EMAIL"`

	// Business
	PDFStoragePath     string `mapstructure:"PDF_STORAGE_PATH"`
	MinClosePercentage int    `mapstructure:"MIN_CLOSE_PERCENTAGE"`
	LowStockWarningPct int    `mapstructure:"LOW_STOCK_WARNING_PCT"`
	SauceCategory      string `mapstructure:"SAUCE_CATEGORY"`
	ChecklistPath      string `mapstructure:"CHECKLIST_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "data/cocina.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("EVENT_CHANNEL", "cocina:eventos")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 12)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("REPORT_EMAIL", "")
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/cocina/reportes")
	viper.SetDefault("MIN_CLOSE_PERCENTAGE", 80)
	viper.SetDefault("LOW_STOCK_WARNING_PCT", 20)
	viper.SetDefault("SAUCE_CATEGORY", "salsas")
	viper.SetDefault("CHECKLIST_PATH", "")

	// Optional .env file for local development: does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Reglas returns the business rules consumed by the service layer.
func (c *Config) Reglas() Reglas {
	return Reglas{
		PorcentajeMinimoCierre: c.MinClosePercentage,
		PorcentajeStockBajo:    c.LowStockWarningPct,
		CategoriaSalsa:         c.SauceCategory,
	}
}

// Reglas are the tunable thresholds of the sale and shift engines.
type Reglas struct {
	PorcentajeMinimoCierre int
	PorcentajeStockBajo    int
	CategoriaSalsa         string
}

// ReglasPorDefecto mirrors the defaults applied by Load.
func ReglasPorDefecto() Reglas {
	return Reglas{PorcentajeMinimoCierre: 80, PorcentajeStockBajo: 20, CategoriaSalsa: "salsas"}
}
