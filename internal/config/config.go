package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const (
	defaultDirName = ".prism"
	dbFilename     = "prism.db"
)

// Config holds the client configuration.
// Environment variables are parsed from the PRISM_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Catalog service
	APIURL              string        `envconfig:"API_URL" default:"http://127.0.0.1:5000"`
	HTTPTimeout         time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
	CatalogLoadAttempts int           `envconfig:"CATALOG_LOAD_ATTEMPTS" default:"3"`
	Debug               bool          `envconfig:"DEBUG" default:"false"`

	// Local state
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DataDir     string `envconfig:"DATA_DIR" default:""`
	StorePath   string `envconfig:"STORE_PATH" default:""`

	// Search
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	MinQueryLength int           `envconfig:"MIN_QUERY_LENGTH" default:"2"`
	SuggestLimit   int           `envconfig:"SUGGEST_LIMIT" default:"5"`

	// History
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"500"`
}

// ResolveDefaults validates the store driver and limits and derives DataDir
// and StorePath when they are empty.
func (c *Config) ResolveDefaults() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case "", "auto":
		c.StoreDriver = StoreSQLite
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be >= 0, got %s", c.HTTPTimeout)
	}
	if c.CatalogLoadAttempts < 1 {
		return fmt.Errorf("CATALOG_LOAD_ATTEMPTS must be >= 1, got %d", c.CatalogLoadAttempts)
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be >= 0, got %s", c.SearchDebounce)
	}
	if c.MinQueryLength < 1 {
		return fmt.Errorf("MIN_QUERY_LENGTH must be >= 1, got %d", c.MinQueryLength)
	}
	if c.SuggestLimit < 1 {
		return fmt.Errorf("SUGGEST_LIMIT must be >= 1, got %d", c.SuggestLimit)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be >= 1, got %d", c.HistoryLimit)
	}

	if c.StoreDriver == StoreSQLite {
		if c.DataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("cannot determine user home: %w", err)
			}
			c.DataDir = filepath.Join(home, defaultDirName)
		}
		if c.StorePath == "" {
			c.StorePath = filepath.Join(c.DataDir, dbFilename)
		}
	}
	return nil
}

// New creates a new Config by parsing environment variables
// prefixed with PRISM_ (PRISM_API_URL, PRISM_HISTORY_LIMIT, ...).
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PRISM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("environment", string(cfg.Environment)).
		Str("api_url", cfg.APIURL).
		Dur("http_timeout", cfg.HTTPTimeout).
		Str("store_driver", cfg.StoreDriver).
		Str("store_path", cfg.StorePath).
		Dur("search_debounce", cfg.SearchDebounce).
		Int("min_query_length", cfg.MinQueryLength).
		Int("history_limit", cfg.HistoryLimit).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a config with an in-memory store and a short debounce.
func NewForTesting() *Config {
	return &Config{
		Environment:         EnvTesting,
		APIURL:              "http://127.0.0.1:5000",
		CatalogLoadAttempts: 3,
		StoreDriver:         StoreMemory,
		SearchDebounce:      20 * time.Millisecond,
		MinQueryLength:      2,
		SuggestLimit:        5,
		HistoryLimit:        500,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}
