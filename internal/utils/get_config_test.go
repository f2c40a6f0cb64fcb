package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_HOST: db.internal\nAPP_PORT: \"8080\"\nPAGE_SIZE: \"6\"\n"), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_PORT", "9000")
	LoadConfig()
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, 6, GetConfigInt("PAGE_SIZE", 20))
	assert.Equal(t, "fallback", GetConfigDefault("SMTP_HOST", "fallback"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestGetConfigIntInvalid(t *testing.T) {
	t.Setenv("AMOUNT_MAX", "lots")
	assert.Equal(t, 32000, GetConfigInt("AMOUNT_MAX", 32000))
}
