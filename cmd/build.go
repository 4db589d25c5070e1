package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ziadkadry99/mangaview/internal/progress"
	"github.com/ziadkadry99/mangaview/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static reader site",
	Long:  `Scans the library and writes the index page, one reader page per series, copied images and cover thumbnails to the output directory.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().String("library", "", "override library directory")
	buildCmd.Flags().Bool("strict", false, "fail when any series or image could not be processed")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("library"); v != "" {
		cfg.LibraryDir = v
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	gen := site.NewSiteGenerator(cfg, log)
	gen.Progress = progress.NewReporter()
	res, err := gen.Generate(cmd.Context())
	if res.Catalog == nil && err != nil {
		return fmt.Errorf("generating site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d series, %d images, %d copied, %d covers)\n",
		cfg.OutputDir, res.Pages, res.Images, res.Copied, res.Covers)

	if err != nil {
		errs := multierr.Errors(err)
		fmt.Printf("%d problem(s) while building:\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			return fmt.Errorf("%d problem(s) while building", len(errs))
		}
	}
	return nil
}
