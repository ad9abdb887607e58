package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	lib, meshes, thumbs string
}

func setup(t *testing.T) (fixture, *Watcher) {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		lib:    filepath.Join(root, "libs", "props.prim"),
		meshes: filepath.Join(root, "meshes"),
		thumbs: filepath.Join(root, "thumbs"),
	}
	for _, d := range []string{filepath.Dir(f.lib), f.meshes, f.thumbs} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(f.lib, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(zerolog.Nop(), f.lib, f.meshes, f.thumbs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return f, w
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return Change{}
	}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case c := <-w.Changes:
		t.Errorf("unexpected change event: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DetectsLibraryWrite(t *testing.T) {
	f, w := setup(t)

	if err := os.WriteFile(f.lib, []byte("\ncube\nbeginMesh\nv 0 0 0\nendMesh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := waitChange(t, w)
	if c.Path != f.lib || c.Kind != Modified {
		t.Errorf("change = %+v, want modified %s", c, f.lib)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	f, w := setup(t)

	mesh := filepath.Join(f.meshes, "cube.obj")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(mesh, []byte("o cube\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	c := waitChange(t, w)
	if c.Path != mesh {
		t.Errorf("change path = %q, want %q", c.Path, mesh)
	}
	expectQuiet(t, w)
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	f, w := setup(t)

	thumb := filepath.Join(f.thumbs, "cube.png")
	if err := os.WriteFile(thumb, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, w)

	if err := os.Remove(thumb); err != nil {
		t.Fatal(err)
	}
	c := waitChange(t, w)
	if c.Kind != Removed || c.Path != thumb {
		t.Errorf("change = %+v, want removed %s", c, thumb)
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	f, w := setup(t)

	for _, path := range []string{
		filepath.Join(filepath.Dir(f.lib), "other.prim"),
		filepath.Join(f.meshes, "notes.txt"),
		filepath.Join(f.thumbs, "cube.obj.tmp"),
	} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	expectQuiet(t, w)
}

func TestWatcher_StartFailsOnMissingDir(t *testing.T) {
	w, err := New(zerolog.Nop(), "", filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected Start to fail for a missing directory")
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{Library: "/r/libs/props.prim", Dirs: []string{"/r/meshes", "/r/thumbs"}}
	tests := map[string]bool{
		"/r/libs/props.prim":    true,
		"/r/libs/other.prim":    false,
		"/r/meshes/cube.obj":    true,
		"/r/meshes/cube.png":    true,
		"/r/thumbs/cube.png":    true,
		"/r/elsewhere/cube.obj": false,
		"/r/meshes/readme.md":   false,
	}
	for path, want := range tests {
		if got := w.relevant(path); got != want {
			t.Errorf("relevant(%q) = %v, want %v", path, got, want)
		}
	}
}
