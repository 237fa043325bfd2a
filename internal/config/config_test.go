package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "https://www.amazon.com", s.BaseURL)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
	assert.Equal(t, 10, s.MaxImages)
	assert.InDelta(t, 0.00359, s.FallbackRate, 1e-9)
	assert.NotEmpty(t, s.Headers["User-Agent"])
	assert.False(t, s.UseBrowser)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Jobs.PollInterval)
	assert.Equal(t, 100, cfg.Jobs.RelayBatch)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCRAPER_MAX_IMAGES", "5")
	t.Setenv("SCRAPER_USE_BROWSER", "true")
	t.Setenv("JOBS_POLL_INTERVAL", "30s")
	t.Setenv("DB_NAME", "scraper_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Scraper.MaxImages)
	assert.True(t, cfg.Scraper.UseBrowser)
	assert.Equal(t, 30*time.Second, cfg.Jobs.PollInterval)
	assert.Equal(t, "scraper_test", cfg.Database.DBName)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Scraper.MaxImages = 0
	assert.Error(t, cfg.Validate())

	cfg.Scraper.MaxImages = 10
	cfg.Scraper.RequestTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg.Scraper.RequestTimeout = time.Second
	cfg.Jobs.RelayBatch = 0
	assert.Error(t, cfg.Validate())
}
