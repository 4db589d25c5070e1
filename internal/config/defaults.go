package config

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".mangaview.yml"

// Header and navigation bar heights of the reader chrome, px.
const (
	headerHeight = 112
	navHeight    = 50
)

// DefaultExcludes are glob patterns skipped while scanning the library.
var DefaultExcludes = []string{
	"**/.*",
	"**/Thumbs.db",
	"**/__MACOSX/**",
}

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error", "none"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LibraryDir:         "public/manga",
		OutputDir:          "site",
		Title:              "Manga Reader",
		Include:            []string{"**"},
		Exclude:            append([]string(nil), DefaultExcludes...),
		StickyOffset:       headerHeight + navHeight,
		StickyOffsetNarrow: headerHeight,
		NarrowBreakpoint:   768,
		DebounceMS:         300,
		LazyMarginPx:       1000,
		ObserveFraction:    0.25,
		CoverWidth:         240,
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           3000,
			LiveSession:    true,
			Watch:          true,
			RebuildDelayMS: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
