package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRACKER_API_URL", "")
	t.Setenv("TRACKER_API_TIMEOUT", "")
	t.Setenv("TRACKER_DARK_MODE", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 4, cfg.Export.Concurrency)
	assert.False(t, cfg.Logging.DebugMode)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), StateDirName, "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://tracker.example.org"
	cfg.UI.Theme = "dark"
	cfg.Logging.DebugMode = true
	cfg.Logging.Categories = map[string]bool{"api": false}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.org", loaded.API.BaseURL)
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.True(t, loaded.Logging.DebugMode)
	assert.False(t, loaded.Logging.IsCategoryEnabled("api"))
	assert.True(t, loaded.Logging.IsCategoryEnabled("view"))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: 5s\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.GetAPITimeout())
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("API URL and timeout", func(t *testing.T) {
		t.Setenv("TRACKER_API_URL", "http://api.internal:9000")
		t.Setenv("TRACKER_API_TIMEOUT", "2s")
		t.Setenv("TRACKER_DARK_MODE", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://api.internal:9000", cfg.API.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.GetAPITimeout())
	})

	t.Run("dark mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRACKER_DARK_MODE", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "dark", cfg.UI.Theme)
	})

	t.Run("dark mode false is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRACKER_DARK_MODE", "0")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "auto", cfg.UI.Theme)
	})
}

func TestGetAPITimeout_Fallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "soon"
	assert.Equal(t, 30*time.Second, cfg.GetAPITimeout())

	cfg.API.Timeout = "-1s"
	assert.Equal(t, 30*time.Second, cfg.GetAPITimeout())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"zero concurrency", func(c *Config) { c.Export.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.False(t, c.IsCategoryEnabled("api"), "disabled without debug mode")

	c.DebugMode = true
	assert.True(t, c.IsCategoryEnabled("api"), "all categories on by default")

	c.Categories = map[string]bool{"api": false, "view": true}
	assert.False(t, c.IsCategoryEnabled("api"))
	assert.True(t, c.IsCategoryEnabled("view"))
	assert.True(t, c.IsCategoryEnabled("sync"))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.UI.Theme = "light"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changes:
		assert.Equal(t, "light", got.UI.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
