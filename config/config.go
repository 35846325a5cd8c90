// ABOUTME: Runtime configuration loaded from flags, env, .env files, and config files
// ABOUTME: Applies defaults on a viper instance and validates the resulting AppConfig
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/harperreed/crmboard/analytics"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix            = "CRMBOARD"
	defaultDriver        = DriverSQLite
	defaultHTTPAddress   = "127.0.0.1:8080"
	defaultLogLevel      = "info"
	defaultWindow        = string(analytics.ThisMonth)
	defaultRefresh       = 30 * time.Second
	defaultTrendMonths   = analytics.DefaultTrendMonths
	defaultSessionCookie = "crm_session"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// AppConfig captures runtime configuration for every command.
type AppConfig struct {
	StoreDriver     string
	StorePath       string
	HTTPAddress     string
	LogLevel        string
	Window          analytics.Window
	RefreshInterval time.Duration
	TrendMonths     int
	SessionRequired bool
	SessionCookie   string
}

// DefaultStorePath is where the record store lives when no path is given.
func DefaultStorePath(driver string) string {
	if driver == DriverBadger {
		return filepath.Join(xdg.DataHome, "crm", "crmboard.badger")
	}
	return filepath.Join(xdg.DataHome, "crm", "crmboard.db")
}

// LoadDotEnv reads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("store.driver", defaultDriver)
	configViper.SetDefault("store.path", "")
	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("dashboard.window", defaultWindow)
	configViper.SetDefault("dashboard.refresh", defaultRefresh)
	configViper.SetDefault("dashboard.trend_months", defaultTrendMonths)
	configViper.SetDefault("session.required", false)
	configViper.SetDefault("session.cookie", defaultSessionCookie)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	window, err := analytics.ParseWindow(configViper.GetString("dashboard.window"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("dashboard.window: %w", err)
	}

	cfg := AppConfig{
		StoreDriver:     strings.ToLower(strings.TrimSpace(configViper.GetString("store.driver"))),
		StorePath:       strings.TrimSpace(configViper.GetString("store.path")),
		HTTPAddress:     configViper.GetString("http.address"),
		LogLevel:        configViper.GetString("log.level"),
		Window:          window,
		RefreshInterval: configViper.GetDuration("dashboard.refresh"),
		TrendMonths:     configViper.GetInt("dashboard.trend_months"),
		SessionRequired: configViper.GetBool("session.required"),
		SessionCookie:   configViper.GetString("session.cookie"),
	}
	if cfg.StorePath == "" && cfg.StoreDriver != DriverMemory {
		cfg.StorePath = DefaultStorePath(cfg.StoreDriver)
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverBadger, DriverMemory:
	default:
		return fmt.Errorf("store.driver %q is not one of sqlite, badger, memory", c.StoreDriver)
	}
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard.refresh must be positive")
	}
	if c.TrendMonths <= 0 {
		return fmt.Errorf("dashboard.trend_months must be positive")
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("session.cookie is required")
	}
	return nil
}
