package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "django_sample_data.json", cfg.Data.JSONFile)
	assert.Equal(t, int64(42), cfg.Data.Seed)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "*", cfg.App.CORSOrigin)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nDATA_SEED=7\nJWT_ACCESS_EXPIRY=1h\nCACHE_TTL=bogus\nAPP_ENV=production\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.App.IsDevelopment())
}
