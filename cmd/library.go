package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/prim/internal/assets"
	"github.com/papapumpkin/prim/internal/library"
	"github.com/papapumpkin/prim/internal/ui"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty library and make it active",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runNew),
}

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Make a library active and regenerate its meshes",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runOpen),
}

var exportCmd = &cobra.Command{
	Use:   "export <dest>",
	Short: "Copy the active library to dest",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runExport),
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a library file for malformed blocks and duplicate names",
	Long: `Decodes the library strictly and reports every structural problem with
its line number. Defaults to the active library.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runValidate),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active library and asset counts",
	Args:  cobra.NoArgs,
	RunE:  withApp(runStatus),
}

func init() {
	rootCmd.AddCommand(newCmd, openCmd, exportCmd, validateCmd, statusCmd)
}

func runNew(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	path, err := a.session.NewLibrary(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.LibraryCreated(path)
	return nil
}

func runOpen(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	names, err := a.session.Open(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.LibraryOpened(a.session.Current(), names)
	return nil
}

func runExport(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	dst := args[0]
	if err := a.session.Export(ctx, dst); err != nil {
		return err
	}
	var size int64
	if info, err := os.Stat(dst); err == nil {
		size = info.Size()
	}
	a.printer.Exported(dst, size)
	return nil
}

func runValidate(_ context.Context, a *app, _ *cobra.Command, args []string) error {
	path := a.session.Current()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("validate: no path given and no library open")
	}

	records, err := library.Validate(path)
	var ioErr *library.IOError
	if errors.As(err, &ioErr) {
		return err
	}
	a.printer.ValidateResult(path, len(records), err)
	if err != nil {
		return fmt.Errorf("validation failed for %s", path)
	}
	return nil
}

func runStatus(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	d := ui.StatusData{
		Library:   a.session.Current(),
		MatchMode: a.cfg.Match().String(),
		Strict:    a.cfg.Strict,
	}
	if a.index != nil {
		d.Catalog = a.cfg.Catalog.Path
	}
	if d.Library != "" {
		if info, err := os.Stat(d.Library); err == nil {
			d.Size = info.Size()
		}
		cards, err := a.session.Primitives(ctx)
		if err != nil {
			return err
		}
		d.Primitives = len(cards)
	}
	r := a.session.Resolver()
	if stems, err := r.Stems(r.MeshDir, assets.MeshExt); err == nil {
		d.Meshes = len(stems)
	}
	if stems, err := r.Stems(r.ThumbnailDir, assets.ThumbnailExt); err == nil {
		d.Thumbnails = len(stems)
	}
	a.printer.Status(d)
	return nil
}
