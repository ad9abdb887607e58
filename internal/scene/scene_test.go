package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeObj(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeObj(t, dir, "a.obj", "o a\nv 0 0 0\n")
	b := writeObj(t, dir, "b.obj", "o b\r\nv 1 1 1\r\n")
	s := New(filepath.Join(dir, "scene.toml"))

	got, err := s.Export(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := []string{"o a", "v 0 0 0", "o b", "v 1 1 1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Export (-want +got):\n%s", diff)
	}

	if _, err := s.Export(context.Background(), nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("Export(nil) error = %v, want ErrEmptySelection", err)
	}
}

func TestImport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{"object statements", "pair.obj", "o left\nv 0 0 0\no right\nv 1 1 1\n", []string{"left", "right"}},
		{"groups only", "grp.obj", "g body\nv 0 0 0\n", []string{"body"}},
		{"no names", "plain.obj", "v 0 0 0\nf 1\n", []string{"plain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeObj(t, dir, tt.file, tt.content)
			s := New(filepath.Join(dir, "scene.toml"))

			got, err := s.Import(context.Background(), path)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Import (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImport_DeduplicatesNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeObj(t, dir, "cube.obj", "o cube\nv 0 0 0\n")
	s := New(filepath.Join(dir, "scene.toml"))
	ctx := context.Background()

	var all []string
	for i := 0; i < 3; i++ {
		got, err := s.Import(ctx, path)
		if err != nil {
			t.Fatalf("Import #%d: %v", i+1, err)
		}
		all = append(all, got...)
	}
	if diff := cmp.Diff([]string{"cube", "cube1", "cube2"}, all); diff != "" {
		t.Errorf("entity names (-want +got):\n%s", diff)
	}

	m, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Entities) != 3 {
		t.Errorf("manifest has %d entities, want 3", len(m.Entities))
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeObj(t, dir, "pair.obj", "o left\no right\no extra\n")
	s := New(filepath.Join(dir, "scene.toml"))
	ctx := context.Background()

	if _, err := s.Import(ctx, path); err != nil {
		t.Fatalf("Import: %v", err)
	}

	tests := []struct {
		entity, name, want string
	}{
		{"left", "pair_001", "pair_001"},
		{"right", "pair_001", "pair_002"},
		{"extra", "left", "left"},
		{"pair_002", "pair_002", "pair_002"},
	}
	for _, tt := range tests {
		got, err := s.Rename(ctx, tt.entity, tt.name)
		if err != nil {
			t.Fatalf("Rename(%q, %q): %v", tt.entity, tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Rename(%q, %q) = %q, want %q", tt.entity, tt.name, got, tt.want)
		}
	}

	if _, err := s.Rename(ctx, "ghost", "x"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Rename unknown error = %v, want ErrUnknownEntity", err)
	}

	m, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var names []string
	for _, e := range m.Entities {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"pair_001", "pair_002", "left"}, names); diff != "" {
		t.Errorf("entity names (-want +got):\n%s", diff)
	}
}

func TestNextFree(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{"cube_001": true, "cube_002": true, "cone": true, "cone1": true}
	tests := map[string]string{
		"cube_001": "cube_003",
		"cube_009": "cube_009",
		"cone":     "cone2",
		"sphere":   "sphere",
	}
	for in, want := range tests {
		if got := nextFree(in, taken); got != want {
			t.Errorf("nextFree(%q) = %q, want %q", in, got, want)
		}
	}
}
