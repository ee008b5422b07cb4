package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	UploadLocal = "local"
	UploadMinIO = "minio"
)

type Config struct {
	Port           string        `env:"PORT, default=3002"`
	Env            string        `env:"ENV, default=development"`
	JWTSecret      string        `env:"JWT_SECRET, required"`
	TokenTTL       time.Duration `env:"TOKEN_TTL, default=168h"`
	LogLevel       string        `env:"LOG_LEVEL, default=info"`
	LogFile        string        `env:"LOG_FILE"`
	Timezone       string        `env:"APP_TIMEZONE"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS, default=http://localhost:5173"`
	BodyLimit      string        `env:"BODY_LIMIT, default=50M"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
	Render RenderConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=invgen"`
}

// RedisConfig is optional; an empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type UploadConfig struct {
	Backend string `env:"UPLOAD_BACKEND, default=local"`
	Dir     string `env:"UPLOAD_DIR, default=uploads"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET, default=invgen-uploads"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

type RenderConfig struct {
	ChromePath string        `env:"CHROME_PATH"`
	Timeout    time.Duration `env:"RENDER_TIMEOUT, default=30s"`
}

// Load reads a .env file from the working directory when present, then
// configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Upload.Backend = strings.ToLower(strings.TrimSpace(c.Upload.Backend))
	switch c.Upload.Backend {
	case UploadLocal:
	case UploadMinIO:
		if c.Upload.MinIOEndpoint == "" || c.Upload.MinIOBucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio upload backend")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether human-friendly defaults should apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location is the zone used for date buckets and document dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
