package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/prim/internal/catalog"
	"github.com/papapumpkin/prim/internal/library"
	"github.com/papapumpkin/prim/internal/session"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWith(&out, &errOut), &out, &errOut
}

func assertContains(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestPrimitives(t *testing.T) {
	t.Parallel()
	p, out, errOut := newTestPrinter()

	p.Primitives([]session.Card{
		{Name: "cube", Lines: 1, Mesh: "/m/cube.obj", Thumbnail: "/t/cube.png"},
		{Name: "cylinder", Lines: 1200, Thumbnail: "/t/default.png"},
	})

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	assertContains(t, lines[0], "cube", "1 line", "mesh", "cube.png")
	assertContains(t, lines[1], "cylinder", "1,200 lines", "no mesh", "default.png")
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", errOut.String())
	}
}

func TestPrimitives_Empty(t *testing.T) {
	t.Parallel()
	p, out, errOut := newTestPrinter()

	p.Primitives(nil)
	if out.Len() != 0 {
		t.Errorf("unexpected stdout output: %q", out.String())
	}
	assertContains(t, errOut.String(), "no primitives")
}

func TestValidateResult(t *testing.T) {
	t.Parallel()

	t.Run("clean", func(t *testing.T) {
		t.Parallel()
		p, _, errOut := newTestPrinter()
		p.ValidateResult("/libs/props.prim", 3, nil)
		assertContains(t, errOut.String(), "props.prim", "3 primitives", "no errors")
	})

	t.Run("joined format errors", func(t *testing.T) {
		t.Parallel()
		p, _, errOut := newTestPrinter()
		err := errors.Join(
			&library.FormatError{Category: library.FormatOrphanEnd, Line: 4},
			&library.FormatError{Category: library.FormatDuplicateName, Line: 12, Name: "cube"},
		)
		p.ValidateResult("/libs/props.prim", 0, err)
		assertContains(t, errOut.String(), "2 errors", "line 4", "line 12")
	})
}

func TestSearchResults(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter()
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	p.SearchResults([]catalog.Entry{
		{Library: "/libs/env.prim", Name: "rock", Lines: 10, IndexedAt: now.Add(-2 * time.Hour)},
		{Library: "/libs/props.prim", Name: "cube", Lines: 2, IndexedAt: now.Add(-2 * time.Hour)},
		{Library: "/libs/props.prim", Name: "cube_alt", Lines: 3, IndexedAt: now.Add(-2 * time.Hour)},
	}, now)

	got := out.String()
	if strings.Count(got, "/libs/props.prim") != 1 {
		t.Errorf("library header should print once per library:\n%s", got)
	}
	assertContains(t, got, "rock", "cube_alt", "3 lines", "2 hours ago")
}

func TestStatus(t *testing.T) {
	t.Parallel()
	p, _, errOut := newTestPrinter()

	p.Status(StatusData{
		Library:    "/libs/props.prim",
		Size:       2048,
		Primitives: 2,
		Meshes:     2,
		Thumbnails: 1,
		MatchMode:  "exact",
	})
	assertContains(t, errOut.String(), "/libs/props.prim", "2.0 KiB", "2 primitives", "exact", "(disabled)")
}

func TestDeletedAndExported(t *testing.T) {
	t.Parallel()
	p, _, errOut := newTestPrinter()

	p.Deleted("cube", true)
	p.Deleted("ghost", false)
	p.Exported("/tmp/backup.prim", 1536)
	assertContains(t, errOut.String(), "deleted", "cube", "no primitive named", "ghost", "1.5 KiB")
}
