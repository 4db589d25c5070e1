package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mangaview/internal/library"
)

var listCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List the series in the library",
	Long:  `Scans the library and prints every series with its chapter and page counts. An optional argument keeps only series whose name contains it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().Bool("chapters", false, "print the chapter numbers of each series")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	scanner := library.NewScanner(library.Options{
		Root:    cfg.LibraryDir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	}, log)
	series, err := scanner.Scan(cmd.Context())
	if series == nil && err != nil {
		return err
	}
	if len(args) == 1 {
		series = library.FilterSeries(series, args[0])
	}

	showChapters, _ := cmd.Flags().GetBool("chapters")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tSLUG\tCHAPTERS\tPAGES\tUNPARSED")
	for _, s := range series {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", s.Title, s.Slug, len(s.Chapters), len(s.Images), s.Unparsed())
		if showChapters && len(s.Chapters) > 0 {
			fmt.Fprintf(tw, "\t\t%v\t\t\n", s.Chapters)
		}
	}
	return tw.Flush()
}
