// Package scene is a file-backed stand-in for the host 3D application. It
// exports geometry from .obj files, imports .obj files as named entities into
// a TOML scene manifest, and renames entities, which is all prim needs from a
// host.
package scene

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	toml "github.com/pelletier/go-toml/v2"
)

var (
	// ErrEmptySelection indicates Export was called with nothing selected.
	ErrEmptySelection = errors.New("nothing selected")
	// ErrUnknownEntity indicates Rename referenced an entity not in the scene.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Entity is one object instantiated in the scene.
type Entity struct {
	Name   string `toml:"name"`
	Object string `toml:"object"`
	Source string `toml:"source"`
}

// Manifest is the on-disk form of a scene.
type Manifest struct {
	Version  int      `toml:"version"`
	Entities []Entity `toml:"entities"`
}

// Scene reads and writes the manifest at Path. Every mutating call loads the
// current manifest and saves it atomically before returning.
type Scene struct {
	Path string
}

// New returns a Scene backed by the manifest at path.
func New(path string) *Scene {
	return &Scene{Path: path}
}

// Load reads the manifest. A missing file is an empty scene.
func (s *Scene) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Version: 1}, nil
		}
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &m, nil
}

// Save writes the manifest atomically.
func (s *Scene) Save(m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling scene: %w", err)
	}
	if err := renameio.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}

// Export returns the geometry lines of every selected .obj file, in order.
func (s *Scene) Export(_ context.Context, selection []string) ([]string, error) {
	if len(selection) == 0 {
		return nil, ErrEmptySelection
	}
	var lines []string
	for _, path := range selection {
		fileLines, err := readLines(path)
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", path, err)
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

// Import adds one entity per object statement ("o" or "g") in the .obj at
// path, or a single entity named after the file when it declares none, and
// returns the new entity names in file order.
func (s *Scene) Import(_ context.Context, path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	objects := objectNames(lines)
	if len(objects) == 0 {
		objects = []string{strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	}

	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(m.Entities))
	for _, e := range m.Entities {
		taken[e.Name] = true
	}

	created := make([]string, 0, len(objects))
	for _, obj := range objects {
		name := uniqueName(obj, taken)
		taken[name] = true
		m.Entities = append(m.Entities, Entity{Name: name, Object: obj, Source: path})
		created = append(created, name)
	}
	if err := s.Save(m); err != nil {
		return nil, err
	}
	return created, nil
}

// Rename gives entity a new name and returns the name actually applied. When
// name is held by another entity its trailing number is bumped until free,
// so "cube_001" becomes "cube_002".
func (s *Scene) Rename(_ context.Context, entity, name string) (string, error) {
	m, err := s.Load()
	if err != nil {
		return "", err
	}
	idx := -1
	taken := make(map[string]bool, len(m.Entities))
	for i, e := range m.Entities {
		if e.Name == entity && idx < 0 {
			idx = i
			continue
		}
		taken[e.Name] = true
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	final := nextFree(name, taken)
	m.Entities[idx].Name = final
	if err := s.Save(m); err != nil {
		return "", err
	}
	return final, nil
}

// objectNames returns the names declared by "o" statements, or by "g"
// statements when the file has no "o" lines.
func objectNames(lines []string) []string {
	var objects, groups []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "o":
			objects = append(objects, fields[1])
		case "g":
			groups = append(groups, fields[1])
		}
	}
	if len(objects) > 0 {
		return objects
	}
	return groups
}

// uniqueName appends the smallest positive integer that makes base unused.
func uniqueName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// nextFree increments the trailing digits of name, keeping their width,
// until it is unused. Names without trailing digits fall back to uniqueName.
func nextFree(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	cut := len(name)
	for cut > 0 && name[cut-1] >= '0' && name[cut-1] <= '9' {
		cut--
	}
	if cut == len(name) {
		return uniqueName(name, taken)
	}
	prefix, digits := name[:cut], name[cut:]
	n, _ := strconv.Atoi(digits)
	for {
		n++
		candidate := fmt.Sprintf("%s%0*d", prefix, len(digits), n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
