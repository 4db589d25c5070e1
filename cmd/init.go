package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mangaview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mangaview configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the library location, output directory and reader layout, and writes it to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
