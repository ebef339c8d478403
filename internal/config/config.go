// Package config resolves runtime settings from defaults, an optional YAML
// file and LOCKEDIN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	// SystemUIPackage is the launcher/system surface that must never be
	// intercepted.
	SystemUIPackage   = "com.android.systemui"
	DefaultOwnPackage = "com.lockedin.app"
)

// Config holds everything the host needs to wire the engine.
type Config struct {
	DBPath              string
	TickInterval        time.Duration
	// StoreWatchInterval is how often a running engine checks the store
	// for commits made by other processes. Zero disables the check.
	StoreWatchInterval  time.Duration
	TimeSavedPerAttempt time.Duration
	OwnPackage          string
	IgnoredPackages     []string
	LogLevel            slog.Level
	LogUseCases         bool
}

// fileConfig mirrors Config for the YAML file. Empty values leave the
// default in place.
type fileConfig struct {
	DBPath              string   `yaml:"db_path"`
	TickInterval        string   `yaml:"tick_interval"`
	StoreWatchInterval  string   `yaml:"store_watch_interval"`
	TimeSavedPerAttempt string   `yaml:"time_saved_per_attempt"`
	OwnPackage          string   `yaml:"own_package"`
	IgnoredPackages     []string `yaml:"ignored_packages"`
	LogLevel            string   `yaml:"log_level"`
	LogUseCases         *bool    `yaml:"log_use_cases"`
}

// DefaultConfig returns the built-in settings. The database lives under
// ~/.lockedin unless the home directory cannot be resolved.
func DefaultConfig() Config {
	dbPath := "lockedin.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".lockedin", "lockedin.db")
	}
	return Config{
		DBPath:              dbPath,
		TickInterval:        time.Minute,
		StoreWatchInterval:  2 * time.Second,
		TimeSavedPerAttempt: domain.DefaultTimeSavedPerAttempt,
		OwnPackage:          DefaultOwnPackage,
		IgnoredPackages:     []string{SystemUIPackage},
		LogLevel:            slog.LevelInfo,
	}
}

// Load applies the YAML file named by LOCKEDIN_CONFIG (if set) and then the
// environment on top of the defaults. Malformed env values are ignored; a
// missing or malformed config file is an error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("LOCKEDIN_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.TickInterval != "" {
		d, err := parsePositiveDuration(fc.TickInterval)
		if err != nil {
			return fmt.Errorf("config tick_interval: %w", err)
		}
		c.TickInterval = d
	}
	if fc.StoreWatchInterval != "" {
		d, err := time.ParseDuration(fc.StoreWatchInterval)
		if err != nil || d < 0 {
			return fmt.Errorf("config store_watch_interval: invalid duration %q", fc.StoreWatchInterval)
		}
		c.StoreWatchInterval = d
	}
	if fc.TimeSavedPerAttempt != "" {
		d, err := parsePositiveDuration(fc.TimeSavedPerAttempt)
		if err != nil {
			return fmt.Errorf("config time_saved_per_attempt: %w", err)
		}
		c.TimeSavedPerAttempt = d
	}
	if fc.OwnPackage != "" {
		c.OwnPackage = fc.OwnPackage
	}
	if len(fc.IgnoredPackages) > 0 {
		c.IgnoredPackages = fc.IgnoredPackages
	}
	if fc.LogLevel != "" {
		if err := c.LogLevel.UnmarshalText([]byte(fc.LogLevel)); err != nil {
			return fmt.Errorf("config log_level: %w", err)
		}
	}
	if fc.LogUseCases != nil {
		c.LogUseCases = *fc.LogUseCases
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOCKEDIN_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LOCKEDIN_TICK_INTERVAL"); v != "" {
		if d, err := parsePositiveDuration(v); err == nil {
			c.TickInterval = d
		}
	}
	if v := os.Getenv("LOCKEDIN_STORE_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.StoreWatchInterval = d
		}
	}
	if v := os.Getenv("LOCKEDIN_TIME_SAVED_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.TimeSavedPerAttempt = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("LOCKEDIN_OWN_PACKAGE"); v != "" {
		c.OwnPackage = v
	}
	if v := os.Getenv("LOCKEDIN_IGNORED_PACKAGES"); v != "" {
		var pkgs []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pkgs = append(pkgs, p)
			}
		}
		c.IgnoredPackages = pkgs
	}
	if v := os.Getenv("LOCKEDIN_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			c.LogLevel = lvl
		}
	}
	if v := os.Getenv("LOCKEDIN_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
}

// Ignored returns the full set of packages the monitor never intercepts:
// the configured list plus the app's own package.
func (c Config) Ignored() []string {
	out := make([]string, 0, len(c.IgnoredPackages)+1)
	out = append(out, c.OwnPackage)
	for _, p := range c.IgnoredPackages {
		if p != c.OwnPackage {
			out = append(out, p)
		}
	}
	return out
}

// NewLogger builds the process logger writing text records to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

var errNonPositive = errors.New("must be positive")

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		// Bare integers are seconds.
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return 0, err
		}
		d = time.Duration(n) * time.Second
	}
	if d <= 0 {
		return 0, errNonPositive
	}
	return d, nil
}
