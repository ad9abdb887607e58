package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/prim/internal/assets"
	"github.com/papapumpkin/prim/internal/catalog"
	"github.com/papapumpkin/prim/internal/config"
	"github.com/papapumpkin/prim/internal/log"
	"github.com/papapumpkin/prim/internal/scene"
	"github.com/papapumpkin/prim/internal/session"
	"github.com/papapumpkin/prim/internal/telemetry"
	"github.com/papapumpkin/prim/internal/ui"
)

// app bundles everything a command needs. Build it with newApp and release
// it with close.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	printer *ui.Printer
	session *session.Session
	index   *catalog.Catalog // nil when the catalog is disabled
	journal *telemetry.Emitter
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger := log.New(log.Config{Level: level, Output: cmd.ErrOrStderr(), Console: true})

	a := &app{
		cfg:     cfg,
		log:     logger,
		printer: ui.NewWith(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}

	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating root %s: %w", cfg.RootDir, err)
	}

	ctx := log.IntoContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	var index session.Index
	if cfg.Catalog.Enabled {
		c, err := catalog.Open(ctx, cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		a.index = c
		index = c
	}
	if cfg.Telemetry.Enabled {
		em, err := telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			a.close()
			return nil, err
		}
		a.journal = em
	}

	s, err := session.New(session.Options{
		LibrariesDir: cfg.LibrariesDir,
		StatePath:    cfg.SessionPath,
		Resolver:     assets.NewResolver(cfg.MeshesDir, cfg.ThumbnailsDir),
		Host:         scene.New(cfg.ScenePath),
		Index:        index,
		Journal:      a.journal,
		Logger:       logger,
		Match:        cfg.Match(),
		Mode:         cfg.DecodeMode(),
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.session = s
	return a, nil
}

func (a *app) close() {
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing catalog")
		}
	}
	if err := a.journal.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing journal")
	}
}

// withApp adapts a command body that needs an app into a cobra RunE.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd.Context(), a, cmd, args)
	}
}
