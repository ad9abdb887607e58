// Package assets resolves primitive names to loose files on disk: geometry
// as <name>.obj and thumbnails as <name>.png, matched by filename stem.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/papapumpkin/prim/internal/library"
)

// Asset extensions.
const (
	MeshExt      = ".obj"
	ThumbnailExt = ".png"
)

// DefaultThumbnail is the fallback thumbnail shipped in the thumbnails
// directory.
const DefaultThumbnail = "default.png"

// Resolver looks up assets in a mesh directory and a thumbnail directory.
// All file access goes through Fs so tests can run against memory.
type Resolver struct {
	Fs           afero.Fs
	MeshDir      string
	ThumbnailDir string
}

// NewResolver returns a Resolver over the OS filesystem.
func NewResolver(meshDir, thumbnailDir string) *Resolver {
	return &Resolver{
		Fs:           afero.NewOsFs(),
		MeshDir:      meshDir,
		ThumbnailDir: thumbnailDir,
	}
}

// EnsureDirs creates the mesh and thumbnail directories if missing.
func (r *Resolver) EnsureDirs() error {
	for _, dir := range []string{r.MeshDir, r.ThumbnailDir} {
		if err := r.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("assets: create %s: %w", dir, err)
		}
	}
	return nil
}

// Find returns the path of the first file in dir (non-recursive) whose
// extension is ext and whose stem equals name exactly. When two entries share
// a stem the winner follows directory iteration order and is unspecified.
func (r *Resolver) Find(dir, name, ext string) (string, error) {
	ext = normalizeExt(ext)
	files, err := r.list(dir, ext)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", &LookupError{Kind: LookupEmptyDirectory, Dir: dir, Name: name, Ext: ext}
	}
	for _, f := range files {
		if strings.TrimSuffix(f, filepath.Ext(f)) == name {
			return filepath.Join(dir, f), nil
		}
	}
	return "", &LookupError{Kind: LookupNotFound, Dir: dir, Name: name, Ext: ext}
}

// Mesh finds <name>.obj in the mesh directory.
func (r *Resolver) Mesh(name string) (string, error) {
	return r.Find(r.MeshDir, name, MeshExt)
}

// Thumbnail finds <name>.png in the thumbnail directory and falls back to
// DefaultThumbnail when the name has no thumbnail of its own. An empty
// thumbnail directory is still an error.
func (r *Resolver) Thumbnail(name string) (string, error) {
	path, err := r.Find(r.ThumbnailDir, name, ThumbnailExt)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, ErrNotFound) {
		return filepath.Join(r.ThumbnailDir, DefaultThumbnail), nil
	}
	return "", err
}

// Stems returns the sorted stems of every ext file in dir.
func (r *Resolver) Stems(dir, ext string) ([]string, error) {
	files, err := r.list(dir, normalizeExt(ext))
	if err != nil {
		return nil, err
	}
	stems := make([]string, 0, len(files))
	for _, f := range files {
		stems = append(stems, strings.TrimSuffix(f, filepath.Ext(f)))
	}
	sort.Strings(stems)
	return stems, nil
}

// Purge deletes every ext file in dir except those named in keep, and
// returns how many were removed.
func (r *Resolver) Purge(dir, ext string, keep ...string) (int, error) {
	files, err := r.list(dir, normalizeExt(ext))
	if err != nil {
		return 0, err
	}
	skip := make(map[string]bool, len(keep))
	for _, k := range keep {
		skip[k] = true
	}
	n := 0
	for _, f := range files {
		if skip[f] {
			continue
		}
		if err := r.Fs.Remove(filepath.Join(dir, f)); err != nil {
			return n, fmt.Errorf("assets: remove %s: %w", f, err)
		}
		n++
	}
	return n, nil
}

// Remove deletes <name><ext> from dir. A missing file is not an error; the
// boolean reports whether anything was deleted.
func (r *Resolver) Remove(dir, name, ext string) (bool, error) {
	path, err := r.Find(dir, name, ext)
	if err != nil {
		var lerr *LookupError
		if errors.As(err, &lerr) {
			return false, nil
		}
		return false, err
	}
	if err := r.Fs.Remove(path); err != nil {
		return false, fmt.Errorf("assets: remove %s: %w", path, err)
	}
	return true, nil
}

// CheckName rejects names that cannot be a single file stem inside an asset
// directory: empty names, "." and "..", and anything holding a separator.
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q is not a usable asset name", library.ErrInvalidRecord, name)
	}
	return nil
}

// WriteMesh materializes body as <name>.obj in the mesh directory.
func (r *Resolver) WriteMesh(name string, body []string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	path := filepath.Join(r.MeshDir, name+MeshExt)
	data := strings.Join(body, "\n") + "\n"
	if err := afero.WriteFile(r.Fs, path, []byte(data), 0o644); err != nil {
		return "", fmt.Errorf("assets: write %s: %w", path, err)
	}
	return path, nil
}

// list returns the names of regular entries in dir with extension ext.
func (r *Resolver) list(dir, ext string) ([]string, error) {
	infos, err := afero.ReadDir(r.Fs, dir)
	if err != nil {
		return nil, fmt.Errorf("assets: list %s: %w", dir, err)
	}
	var files []string
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != ext {
			continue
		}
		files = append(files, info.Name())
	}
	return files, nil
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
