package config

import (
	"fmt"
	"time"
)

// Config is the top-level mangaview configuration, corresponding to .mangaview.yml.
type Config struct {
	LibraryDir         string       `yaml:"library_dir" koanf:"library_dir"`
	OutputDir          string       `yaml:"output_dir" koanf:"output_dir"`
	Title              string       `yaml:"title" koanf:"title"`
	Include            []string     `yaml:"include" koanf:"include"`
	Exclude            []string     `yaml:"exclude" koanf:"exclude"`
	StickyOffset       int          `yaml:"sticky_offset" koanf:"sticky_offset"`
	StickyOffsetNarrow int          `yaml:"sticky_offset_narrow" koanf:"sticky_offset_narrow"`
	NarrowBreakpoint   int          `yaml:"narrow_breakpoint" koanf:"narrow_breakpoint"`
	DebounceMS         int          `yaml:"debounce_ms" koanf:"debounce_ms"`
	LazyMarginPx       int          `yaml:"lazy_margin_px" koanf:"lazy_margin_px"`
	ObserveFraction    float64      `yaml:"observe_fraction" koanf:"observe_fraction"`
	CoverWidth         int          `yaml:"cover_width" koanf:"cover_width"`
	Server             ServerConfig `yaml:"server" koanf:"server"`
	Log                LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Host            string   `yaml:"host" koanf:"host"`
	Port            int      `yaml:"port" koanf:"port"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	LiveSession     bool     `yaml:"live_session" koanf:"live_session"`
	Watch           bool     `yaml:"watch" koanf:"watch"`
	RebuildDelayMS  int      `yaml:"rebuild_delay_ms" koanf:"rebuild_delay_ms"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}

// Quiet is the address update quiet period.
func (c *Config) Quiet() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Addr returns the listen address of the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RebuildDelay is the quiet period after the last library change before a rebuild.
func (s ServerConfig) RebuildDelay() time.Duration {
	return time.Duration(s.RebuildDelayMS) * time.Millisecond
}
