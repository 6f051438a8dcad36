// Package config loads runtime configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageR2    = "r2"
	StorageLocal = "local"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"5200"`
	DatabaseURL    string   `env:"DATABASE_URL,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	// Empty disables gateway authentication.
	GatewayToken string `env:"GATEWAY_SERVICE_TOKEN"`
	BodyLimit    int    `env:"BODY_LIMIT_BYTES" envDefault:"16777216"`

	// Storage
	StorageBackend     string `env:"STORAGE_BACKEND" envDefault:"r2"` // r2 | local
	CloudflareAccount  string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID      string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret  string `env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket           string `env:"R2_BUCKET_NAME"`
	CDNBaseURL         string `env:"CDN_BASE_URL"`
	LocalUploadBaseURL string `env:"LOCAL_UPLOAD_BASE_URL" envDefault:"/uploads"`

	// Sessions; in-memory when RedisAddr is empty.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Registration workflow
	PhoneRequired       bool          `env:"REGISTRATION_PHONE_REQUIRED" envDefault:"false"`
	MaxScreenshotBytes  int64         `env:"MAX_SCREENSHOT_BYTES" envDefault:"5242880"`
	ExternalCallTimeout time.Duration `env:"EXTERNAL_CALL_TIMEOUT" envDefault:"30s"`

	// Orphan screenshot reconciliation
	OrphanSweepEnabled  bool          `env:"ORPHAN_SWEEP_ENABLED" envDefault:"true"`
	OrphanSweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL" envDefault:"1h"`
	OrphanGracePeriod   time.Duration `env:"ORPHAN_GRACE_PERIOD" envDefault:"24h"`
	OrphanSweepDelete   bool          `env:"ORPHAN_SWEEP_DELETE" envDefault:"false"`

	// Catalog seed
	SeedCatalog     bool   `env:"SEED_CATALOG" envDefault:"false"`
	CatalogSeedFile string `env:"CATALOG_SEED_FILE"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageLocal:
	case StorageR2:
		if c.CloudflareAccount == "" || c.R2Bucket == "" {
			return fmt.Errorf("STORAGE_BACKEND=r2 requires CLOUDFLARE_ACCOUNT_ID and R2_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (use r2 or local)", c.StorageBackend)
	}
	if c.MaxScreenshotBytes <= 0 {
		return fmt.Errorf("MAX_SCREENSHOT_BYTES must be positive")
	}
	if c.OrphanSweepEnabled && c.OrphanSweepDelete && c.OrphanGracePeriod <= c.SessionTTL {
		return fmt.Errorf("ORPHAN_GRACE_PERIOD must exceed SESSION_TTL when ORPHAN_SWEEP_DELETE is on")
	}
	if int64(c.BodyLimit) <= c.MaxScreenshotBytes {
		return fmt.Errorf("BODY_LIMIT_BYTES must exceed MAX_SCREENSHOT_BYTES")
	}
	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}
