package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://graphql.anilist.co", cfg.AniList.APIURL)
	assert.Equal(t, 15*time.Second, cfg.AniList.RateLimitWait)
	assert.Equal(t, 500, cfg.AniList.ChunkSize)
	assert.Equal(t, "output", cfg.Backup.OutputDir)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ANILIST_REQUESTS_PER_MINUTE", "30")
	t.Setenv("BACKUP_OUTPUT_DIR", "/tmp/backups")
	t.Setenv("STORAGE_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.AniList.RequestsPerMinute)
	assert.Equal(t, "/tmp/backups", cfg.Backup.OutputDir)
	assert.True(t, cfg.Storage.Enabled)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ANILIST_CLIENT_ID=12345\nLOG_FORMAT=json\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("ANILIST_CLIENT_ID")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "12345", cfg.AniList.ClientID)
	assert.Equal(t, "json", cfg.Log.Format)
}
