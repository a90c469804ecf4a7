package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "tcp(127.0.0.1:3306)")
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.ResyncInterval)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.MinIOPublicURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost/portfolio")
	t.Setenv("MINIO_SECURE", "true")
	t.Setenv("BASE_URL", "https://example.com/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/portfolio", cfg.DatabaseDSN)
	assert.Equal(t, "https://127.0.0.1:9000", cfg.MinIOPublicURL)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ADDR: \":9090\"\nRESYNC_INTERVAL: 1m\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Minute, cfg.ResyncInterval)
}

func TestLoadRejectsBadUploadLimit(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "0")
	_, err := Load("")
	require.Error(t, err)
}
