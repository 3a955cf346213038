package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultConfigHeader is written above the generated YAML so a first-run
// config file is self-explanatory.
const defaultConfigHeader = `# intake configuration
# Generated with defaults; edit freely. Times are in the units named by the key.
`

// fileConfig mirrors Config with yaml tags for writing. Viper reads with
// mapstructure tags; writing goes through yaml.v3 directly.
type fileConfig struct {
	Lookup struct {
		URL             string `yaml:"url"`
		TimeoutMS       int    `yaml:"timeout_ms"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"lookup"`
	Session struct {
		DebounceMS       int `yaml:"debounce_ms"`
		CountdownSeconds int `yaml:"countdown_seconds"`
	} `yaml:"session"`
	DBPath string            `yaml:"db_path,omitempty"`
	Theme  map[string]string `yaml:"theme"`
	Flags  map[string]bool   `yaml:"flags"`
}

// WriteDefaultConfig writes the default configuration to path, creating
// parent directories as needed. Used on first run when no config exists.
func WriteDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := Defaults()
	var fc fileConfig
	fc.Lookup.URL = defaults.Lookup.URL
	fc.Lookup.TimeoutMS = defaults.Lookup.TimeoutMS
	fc.Lookup.CacheTTLSeconds = defaults.Lookup.CacheTTLSeconds
	fc.Session.DebounceMS = defaults.Session.DebounceMS
	fc.Session.CountdownSeconds = defaults.Session.CountdownSeconds
	fc.DBPath = defaults.DBPath
	fc.Theme = map[string]string{
		"highlight": defaults.Theme.Highlight,
		"subtle":    defaults.Theme.Subtle,
		"error":     defaults.Theme.Error,
		"success":   defaults.Theme.Success,
	}
	fc.Flags = defaults.Flags

	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	content := append([]byte(defaultConfigHeader), data...)
	if err := os.WriteFile(path, content, 0644); err != nil { //nolint:gosec // config file is not a secret
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
