package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "MANGAVIEW_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MANGAVIEW_*). Nested keys use a double
// underscore: MANGAVIEW_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.LibraryDir == "" {
		return fmt.Errorf("library_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.StickyOffset < 0 || c.StickyOffsetNarrow < 0 {
		return fmt.Errorf("sticky offsets must be non-negative")
	}
	if c.NarrowBreakpoint < 0 {
		return fmt.Errorf("narrow_breakpoint must be non-negative")
	}
	if c.DebounceMS <= 0 {
		return fmt.Errorf("debounce_ms must be positive")
	}
	if c.LazyMarginPx < 0 {
		return fmt.Errorf("lazy_margin_px must be non-negative")
	}
	if c.ObserveFraction <= 0 || c.ObserveFraction > 1 {
		return fmt.Errorf("observe_fraction must be in (0, 1], got %g", c.ObserveFraction)
	}
	if c.CoverWidth < 0 {
		return fmt.Errorf("cover_width must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RebuildDelayMS < 0 {
		return fmt.Errorf("server.rebuild_delay_ms must be non-negative")
	}
	if !validLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level %q: must be one of %s", c.Log.Level, strings.Join(LogLevels, ", "))
	}
	return nil
}

func validLevel(l string) bool {
	if l == "" {
		return true
	}
	for _, v := range LogLevels {
		if v == l {
			return true
		}
	}
	return false
}
