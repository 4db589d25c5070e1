package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mangaview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mangaview",
	Short: "Static web reader for chapter-organized image collections",
	Long: `mangaview scans a library of series directories holding images named
chapter_<N>_page_<M>.<ext> and builds a static reader site: one page per
series with lazily loaded pages, chapter navigation and an address that
follows the chapter you are reading.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
