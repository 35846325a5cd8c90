// ABOUTME: Tests for configuration defaults, env overrides, and validation
// ABOUTME: Uses t.Setenv so overrides never leak between tests
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/harperreed/crmboard/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, filepath.Join(xdg.DataHome, "crm", "crmboard.db"), cfg.StorePath)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, analytics.ThisMonth, cfg.Window)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 6, cfg.TrendMonths)
	assert.False(t, cfg.SessionRequired)
	assert.Equal(t, "crm_session", cfg.SessionCookie)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CRMBOARD_STORE_DRIVER", "badger")
	t.Setenv("CRMBOARD_DASHBOARD_WINDOW", "quarter")
	t.Setenv("CRMBOARD_DASHBOARD_REFRESH", "5s")
	t.Setenv("CRMBOARD_SESSION_REQUIRED", "true")

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, DriverBadger, cfg.StoreDriver)
	assert.Equal(t, DefaultStorePath(DriverBadger), cfg.StorePath)
	assert.Equal(t, analytics.Quarter, cfg.Window)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.True(t, cfg.SessionRequired)
}

func TestLoadMemoryDriverHasNoPath(t *testing.T) {
	v := NewViper()
	v.Set("store.driver", "memory")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.StorePath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]struct {
		key   string
		value any
	}{
		"driver":       {"store.driver", "postgres"},
		"window":       {"dashboard.window", "fortnight"},
		"refresh":      {"dashboard.refresh", "0s"},
		"trend months": {"dashboard.trend_months", 0},
		"address":      {"http.address", " "},
		"cookie":       {"session.cookie", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := NewViper()
			v.Set(tc.key, tc.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CRMBOARD_LOG_LEVEL=debug\n"), 0o600))

	// Register cleanup for the variable godotenv is about to set.
	t.Setenv("CRMBOARD_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("CRMBOARD_LOG_LEVEL"))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnvKeepsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CRMBOARD_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("CRMBOARD_LOG_LEVEL", "error")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "error", os.Getenv("CRMBOARD_LOG_LEVEL"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
