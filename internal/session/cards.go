package session

import (
	"context"
	"fmt"

	"github.com/papapumpkin/prim/internal/assets"
	"github.com/papapumpkin/prim/internal/library"
)

// Card describes one primitive for display.
type Card struct {
	Name      string
	Lines     int
	Mesh      string // empty when the mesh has not been materialized
	Thumbnail string // empty when the thumbnail directory is unusable
}

// Primitives returns a card per record of the active library in file order.
func (s *Session) Primitives(ctx context.Context) ([]Card, error) {
	if s.library == "" {
		return nil, ErrNoLibrary
	}
	records, err := library.DecodeFile(s.library, s.opts.Mode)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, s.card(rec))
	}
	return cards, nil
}

func (s *Session) card(rec library.Record) Card {
	c := Card{Name: rec.Name, Lines: len(rec.Body)}
	if mesh, err := s.opts.Resolver.Mesh(rec.Name); err == nil {
		c.Mesh = mesh
	}
	if thumb, err := s.opts.Resolver.Thumbnail(rec.Name); err == nil {
		c.Thumbnail = thumb
	}
	return c
}

// Show returns the card and body of the first block named name.
func (s *Session) Show(ctx context.Context, name string) (Card, []string, error) {
	if s.library == "" {
		return Card{}, nil, ErrNoLibrary
	}
	records, err := library.DecodeFile(s.library, s.opts.Mode)
	if err != nil {
		return Card{}, nil, err
	}
	for _, rec := range records {
		if rec.Name != name {
			continue
		}
		return s.card(rec), rec.Body, nil
	}
	return Card{}, nil, fmt.Errorf("%w: %s", ErrPrimitiveNotFound, name)
}

// Resolver exposes the asset resolver the session materializes into.
func (s *Session) Resolver() *assets.Resolver {
	return s.opts.Resolver
}
