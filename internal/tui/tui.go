// Package tui is the interactive gallery: a Bubble Tea program listing the
// primitives of the active library, with instancing and deletion.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/prim/internal/watch"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a gallery program on the alternate screen.
func NewProgram(ctx context.Context, lib Library, changes <-chan watch.Change, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewModel(ctx, lib, changes), allOpts...)
}

// Run creates and runs the gallery, blocking until it exits.
func Run(ctx context.Context, lib Library, changes <-chan watch.Change) error {
	if _, err := NewProgram(ctx, lib, changes).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
