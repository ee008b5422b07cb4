package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3002", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "50M", cfg.BodyLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, UploadLocal, cfg.Upload.Backend)
	assert.Equal(t, "invgen", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
	assert.True(t, cfg.IsDevelopment())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFrom_RequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"PORT":            "8080",
		"ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"APP_TIMEZONE":    "Asia/Kolkata",
		"UPLOAD_BACKEND":  "MinIO",
		"MINIO_ENDPOINT":  "localhost:9000",
		"REDIS_ADDR":      "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, UploadMinIO, cfg.Upload.Backend)
	assert.Equal(t, "invgen-uploads", cfg.Upload.MinIOBucket)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend": {"JWT_SECRET": "x", "UPLOAD_BACKEND": "ftp"},
		"minio without endpoint": {"JWT_SECRET": "x", "UPLOAD_BACKEND": "minio"},
		"bad timezone":  {"JWT_SECRET": "x", "APP_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
