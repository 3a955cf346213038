// Package config provides configuration types, defaults, and persistence for intake.
package config

import (
	"fmt"
	"time"
)

// LookupConfig holds settings for the remote relation registry.
type LookupConfig struct {
	// URL is the registry base URL, e.g. "https://relations.example.nl/api".
	URL string `mapstructure:"url"`

	// TimeoutMS bounds a single registry request.
	TimeoutMS int `mapstructure:"timeout_ms"`

	// CacheTTLSeconds is how long a lookup result is cached per signature.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// SessionConfig holds timing settings for the duplicate-check session.
type SessionConfig struct {
	// DebounceMS is the quiet period after an input change before a
	// lookup is dispatched.
	DebounceMS int `mapstructure:"debounce_ms"`

	// CountdownSeconds is how long the session waits on an empty result
	// before auto-advancing the wizard.
	CountdownSeconds int `mapstructure:"countdown_seconds"`
}

// ThemeConfig holds color customization options.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// Config holds all configuration options for intake.
type Config struct {
	Lookup  LookupConfig    `mapstructure:"lookup"`
	Session SessionConfig   `mapstructure:"session"`
	DBPath  string          `mapstructure:"db_path"`
	Theme   ThemeConfig     `mapstructure:"theme"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Lookup: LookupConfig{
			URL:             "http://localhost:8170/api",
			TimeoutMS:       4000,
			CacheTTLSeconds: 120,
		},
		Session: SessionConfig{
			DebounceMS:       100,
			CountdownSeconds: 5,
		},
		DBPath: "", // empty means $HOME/.intake/cases.db
		Theme: ThemeConfig{
			Highlight: "#73F59F",
			Subtle:    "#6B7280",
			Error:     "#F87171",
			Success:   "#34D399",
		},
		Flags: map[string]bool{
			FlagDefaultLookupCache: true,
			FlagDefaultAutoAdvance: true,
		},
	}
}

// Default flag keys mirrored here so Defaults() does not import flags
// (flags imports log; config stays leaf-level for tests).
const (
	FlagDefaultLookupCache = "lookup-cache"
	FlagDefaultAutoAdvance = "auto-advance"
)

// DebounceInterval returns the debounce quiet period as a duration.
func (c Config) DebounceInterval() time.Duration {
	return time.Duration(c.Session.DebounceMS) * time.Millisecond
}

// CountdownDuration returns the auto-advance countdown as a duration.
func (c Config) CountdownDuration() time.Duration {
	return time.Duration(c.Session.CountdownSeconds) * time.Second
}

// LookupTimeout returns the per-request registry timeout as a duration.
func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.Lookup.TimeoutMS) * time.Millisecond
}

// CacheTTL returns the lookup cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Lookup.CacheTTLSeconds) * time.Second
}

// Validate checks the configuration for values the wizard cannot run with.
func Validate(c Config) error {
	if c.Lookup.URL == "" {
		return fmt.Errorf("lookup.url must not be empty")
	}
	if c.Session.DebounceMS <= 0 {
		return fmt.Errorf("session.debounce_ms must be positive, got %d", c.Session.DebounceMS)
	}
	if c.Session.CountdownSeconds <= 0 {
		return fmt.Errorf("session.countdown_seconds must be positive, got %d", c.Session.CountdownSeconds)
	}
	if c.Lookup.TimeoutMS <= 0 {
		return fmt.Errorf("lookup.timeout_ms must be positive, got %d", c.Lookup.TimeoutMS)
	}
	return nil
}
