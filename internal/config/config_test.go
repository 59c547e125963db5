package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PRISM_DATA_DIR", t.TempDir())

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout, "no HTTP timeout by default")
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 2, cfg.MinQueryLength)
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.Equal(t, 3, cfg.CatalogLoadAttempts)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, filepath.Join(cfg.DataDir, "prism.db"), cfg.StorePath)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("PRISM_STORE_DRIVER", "memory")
	t.Setenv("PRISM_HTTP_TIMEOUT", "2s")
	t.Setenv("PRISM_HISTORY_LIMIT", "50")
	t.Setenv("PRISM_SEARCH_DEBOUNCE", "100ms")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 100*time.Millisecond, cfg.SearchDebounce)
	assert.Empty(t, cfg.StorePath, "memory store needs no path")
}

func TestResolveDefaults_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":        func(c *Config) { c.StoreDriver = "postgres" },
		"history limit": func(c *Config) { c.HistoryLimit = 0 },
		"min query":     func(c *Config) { c.MinQueryLength = 0 },
		"attempts":      func(c *Config) { c.CatalogLoadAttempts = 0 },
		"timeout":       func(c *Config) { c.HTTPTimeout = -time.Second },
		"api url":       func(c *Config) { c.APIURL = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewForTesting()
			mutate(cfg)
			assert.Error(t, cfg.ResolveDefaults())
		})
	}
}

func TestNewForTesting(t *testing.T) {
	cfg := NewForTesting()
	require.NoError(t, cfg.ResolveDefaults())
	assert.True(t, cfg.IsTesting())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
}
