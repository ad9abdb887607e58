package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/prim/internal/config"
	"github.com/papapumpkin/prim/internal/tui"
	"github.com/papapumpkin/prim/internal/watch"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive primitive gallery",
	Args:  cobra.NoArgs,
	RunE:  withApp(runBrowse),
}

func init() {
	browseCmd.Flags().Bool("no-watch", false, "do not refresh on file changes")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	var changes <-chan watch.Change
	if !noWatch {
		r := a.session.Resolver()
		if err := r.EnsureDirs(); err != nil {
			return err
		}
		w, err := watch.New(a.log, a.session.Current(), r.MeshDir, r.ThumbnailDir)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		changes = w.Changes
	}
	return tui.Run(ctx, a.session, changes)
}

// runRootDefault launches the gallery when a session already exists in the
// configured root and falls back to help otherwise.
func runRootDefault(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.Help()
	}
	if _, err := os.Stat(cfg.SessionPath); err != nil {
		return cmd.Help()
	}
	return withApp(runBrowse)(cmd, args)
}
