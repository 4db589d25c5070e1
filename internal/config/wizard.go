package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to mangaview! Let's configure your library.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Library directory.
	libPrompt := promptui.Prompt{
		Label:   "Library directory (one folder per series)",
		Default: cfg.LibraryDir,
	}
	libDir, err := libPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("library dir: %w", err)
	}
	if _, err := os.Stat(libDir); err != nil {
		fmt.Printf("Note: %s does not exist yet.\n", libDir)
	}

	// 2. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 3. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	// 4. Chrome height.
	offsetPrompt := promptui.Prompt{
		Label:    "Height of the fixed header and navigation (px)",
		Default:  strconv.Itoa(cfg.StickyOffset),
		Validate: nonNegativeInt,
	}
	offsetStr, err := offsetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sticky offset: %w", err)
	}
	offset, _ := strconv.Atoi(strings.TrimSpace(offsetStr))

	// 5. Serve port.
	portPrompt := promptui.Prompt{
		Label:    "Port for mangaview serve",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: nonNegativeInt,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(strings.TrimSpace(portStr))

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	// 7. Live reading session.
	livePrompt := promptui.Select{
		Label: "Drive the address bar from the server while serving?",
		Items: []string{"yes", "no"},
	}
	liveIdx, _, err := livePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("live session: %w", err)
	}

	cfg.LibraryDir = libDir
	cfg.OutputDir = outputDir
	cfg.Title = title
	cfg.StickyOffset = offset
	cfg.Server.Port = port
	cfg.Server.LiveSession = liveIdx == 0
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
