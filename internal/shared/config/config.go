package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"resume-maker/internal/shared/telemetry"
)

const devSecretKey = "dev-secret-change-me"

// Config holds application configuration.
type Config struct {
	Env          string        `env:"ENV" envDefault:"dev"`
	Port         string        `env:"PORT" envDefault:"8080"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	SecretKey    string        `env:"SECRET_KEY"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"2097152"`
	DatabaseURL  string        `env:"DATABASE_URL"`

	DB      DBConfig `envPrefix:"DB_"`
	Preview PreviewConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	PDF     PDFConfig
	Google  GoogleConfig `envPrefix:"GOOGLE_"`
}

// DBConfig tunes the account store's connection pool.
type DBConfig struct {
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
	PingTimeout     time.Duration `env:"PING_TIMEOUT" envDefault:"5s"`
}

// PreviewConfig controls the preview token caches.
type PreviewConfig struct {
	Store         string        `env:"PREVIEW_STORE" envDefault:"memory"`
	TTL           time.Duration `env:"PREVIEW_TTL" envDefault:"1h"`
	SweepInterval time.Duration `env:"PREVIEW_SWEEP_INTERVAL" envDefault:"1m"`
}

type RedisConfig struct {
	Addr      string `env:"ADDR" envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"`
	DB        int    `env:"DB" envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"resume-maker:"`
}

// PDFConfig controls headless Chrome conversion and download throttling.
type PDFConfig struct {
	ChromePath string        `env:"CHROME_PATH"`
	Timeout    time.Duration `env:"PDF_TIMEOUT" envDefault:"60s"`
	RatePerSec float64       `env:"PDF_RATE_PER_SEC" envDefault:"1"`
	Burst      int           `env:"PDF_BURST" envDefault:"5"`
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether all Google OAuth settings are present.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

// Load reads configuration from .env files (best effort) and environment variables.
func Load() (Config, error) {
	if err := loadEnvFiles(".env", "cmd/.env"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevLike reports whether the process runs on a developer machine.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.Preview.Store = strings.ToLower(strings.TrimSpace(c.Preview.Store))
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 2 << 20
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.Preview.TTL <= 0 {
		c.Preview.TTL = time.Hour
	}
	if c.PDF.Timeout <= 0 {
		c.PDF.Timeout = 60 * time.Second
	}
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		if c.IsProduction() {
			return errors.New("SECRET_KEY is required in production")
		}
		telemetry.Warn("config.secret_default", map[string]any{"env": c.Env})
		c.SecretKey = devSecretKey
	}
	if c.DatabaseURL == "" && !c.IsDevLike() {
		return fmt.Errorf("DATABASE_URL is required when ENV=%s", c.Env)
	}
	switch c.Preview.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("PREVIEW_STORE must be memory or redis, got %q", c.Preview.Store)
	}
	return nil
}

func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
