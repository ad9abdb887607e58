package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <glob>",
	Short: "Find primitives by name across every indexed library",
	Long: `Searches the catalog of every library prim has opened or written to.
The pattern is a glob over primitive names, e.g. "cube*" or "{rock,tree}_?".`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runSearch),
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	if a.index == nil {
		return errors.New("search: catalog is disabled (set catalog.enabled)")
	}
	entries, err := a.index.Search(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.SearchResults(entries, time.Now())
	return nil
}
