package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "http://localhost:8170/api", cfg.Lookup.URL)
	require.Equal(t, 100, cfg.Session.DebounceMS)
	require.Equal(t, 5, cfg.Session.CountdownSeconds)
	require.True(t, cfg.Flags[FlagDefaultLookupCache])
	require.True(t, cfg.Flags[FlagDefaultAutoAdvance])
	require.NoError(t, Validate(cfg), "defaults must validate")
}

func TestDurationHelpers(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 100*time.Millisecond, cfg.DebounceInterval())
	require.Equal(t, 5*time.Second, cfg.CountdownDuration())
	require.Equal(t, 4*time.Second, cfg.LookupTimeout())
	require.Equal(t, 2*time.Minute, cfg.CacheTTL())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty lookup url", func(c *Config) { c.Lookup.URL = "" }},
		{"zero debounce", func(c *Config) { c.Session.DebounceMS = 0 }},
		{"negative debounce", func(c *Config) { c.Session.DebounceMS = -5 }},
		{"zero countdown", func(c *Config) { c.Session.CountdownSeconds = 0 }},
		{"zero lookup timeout", func(c *Config) { c.Lookup.TimeoutMS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			require.Error(t, Validate(cfg))
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".intake", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# intake configuration")

	var fc fileConfig
	require.NoError(t, yaml.Unmarshal(data, &fc))
	require.Equal(t, Defaults().Lookup.URL, fc.Lookup.URL)
	require.Equal(t, Defaults().Session.DebounceMS, fc.Session.DebounceMS)
	require.True(t, fc.Flags[FlagDefaultLookupCache])
}

func TestWriteDefaultConfig_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
