// Package session holds the state of one prim working session: the active
// library, the asset directories that mirror it, and the host scene that
// primitives are exported from and instanced into. Every library operation
// the CLI and gallery offer goes through a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/prim/internal/assets"
	"github.com/papapumpkin/prim/internal/library"
	"github.com/papapumpkin/prim/internal/log"
	"github.com/papapumpkin/prim/internal/telemetry"
)

// Options configures a Session. Index and Journal may be nil.
type Options struct {
	LibrariesDir string
	StatePath    string
	Resolver     *assets.Resolver
	Host         Host
	Index        Index
	Journal      *telemetry.Emitter
	Logger       zerolog.Logger
	Match        library.MatchMode
	Mode         library.Mode
}

// Session is the explicit replacement for a process-wide "current library".
// It is not safe for concurrent use.
type Session struct {
	opts    Options
	log     zerolog.Logger
	library string
	now     func() time.Time
}

// New restores the session persisted at opts.StatePath. A remembered library
// that no longer exists is forgotten.
func New(opts Options) (*Session, error) {
	if opts.Resolver == nil {
		return nil, errors.New("session: resolver is required")
	}
	if opts.Host == nil {
		return nil, errors.New("session: host is required")
	}
	s := &Session{
		opts: opts,
		log:  log.WithComponent(opts.Logger, "session"),
		now:  time.Now,
	}
	if opts.StatePath == "" {
		return s, nil
	}

	st, err := LoadState(opts.StatePath)
	if err != nil {
		return nil, err
	}
	if st.Library != "" {
		if _, err := os.Stat(st.Library); err != nil {
			s.log.Warn().Str("library", st.Library).Msg("remembered library is gone")
		} else {
			s.library = st.Library
		}
	}
	return s, nil
}

// Current returns the active library path, or "" when none is open.
func (s *Session) Current() string {
	return s.library
}

// NewLibrary creates <name>.prim in the libraries directory and makes it the
// active library.
func (s *Session) NewLibrary(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", s.failed("new", fmt.Errorf("%w: library name %q", library.ErrInvalidRecord, name))
	}
	if err := os.MkdirAll(s.opts.LibrariesDir, 0o755); err != nil {
		return "", s.failed("new", fmt.Errorf("session: create libraries dir: %w", err))
	}
	path, err := filepath.Abs(filepath.Join(s.opts.LibrariesDir, name+library.Extension))
	if err != nil {
		return "", s.failed("new", err)
	}
	if err := library.Create(path); err != nil {
		return "", s.failed("new", err)
	}
	if err := s.setLibrary(path); err != nil {
		return "", s.failed("new", err)
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.ReplaceLibrary(ctx, path, nil); err != nil {
			return "", s.failed("new", err)
		}
	}

	s.log.Info().Str("library", path).Msg("library created")
	s.emit(telemetry.Event{Kind: telemetry.KindLibraryNew, Library: path})
	return path, nil
}

// Open makes the library at path active, regenerates the mesh directory from
// its records and returns the primitive names in file order. Nothing changes
// until the file decodes and every record name is usable as a mesh file. If
// regenerating the meshes fails, the previous library stays active and its
// meshes are rebuilt.
func (s *Session) Open(ctx context.Context, path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, s.failed("open", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, s.failed("open", fmt.Errorf("%w: %s", ErrLibraryNotFound, abs))
		}
		return nil, s.failed("open", &library.IOError{Op: "stat", Path: abs, Err: err})
	}
	records, err := s.decode(abs, s.opts.Mode)
	if err != nil {
		return nil, s.failed("open", err)
	}

	prev := s.library
	if err := s.materialize(records); err != nil {
		s.restore(prev)
		return nil, s.failed("open", err)
	}
	if err := s.setLibrary(abs); err != nil {
		s.restore(prev)
		return nil, s.failed("open", err)
	}

	names := make([]string, 0, len(records))
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
		counts[rec.Name] = len(rec.Body)
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.ReplaceLibrary(ctx, abs, counts); err != nil {
			return nil, s.failed("open", err)
		}
	}

	s.log.Info().Str("library", abs).Int("primitives", len(names)).Msg("library opened")
	s.emit(telemetry.Event{
		Kind:    telemetry.KindLibraryOpen,
		Library: abs,
		Data:    map[string]int{"primitives": len(names)},
	})
	return names, nil
}

// decode reads the records of path that can be materialized. A record whose
// name is not a usable file stem fails the decode in Strict mode and is
// skipped otherwise.
func (s *Session) decode(path string, mode library.Mode) ([]library.Record, error) {
	records, err := library.DecodeFile(path, mode)
	if err != nil {
		return nil, err
	}
	usable := records[:0]
	for _, rec := range records {
		if err := assets.CheckName(rec.Name); err != nil {
			if mode == library.Strict {
				return nil, err
			}
			s.log.Warn().Str("library", path).Str("primitive", rec.Name).Msg("skipping record with unusable name")
			continue
		}
		usable = append(usable, rec)
	}
	return usable, nil
}

// restore rebuilds the meshes of prev after a failed open. Failures are only
// logged; the open error is what the caller sees.
func (s *Session) restore(prev string) {
	if prev == "" {
		return
	}
	records, err := s.decode(prev, library.Lenient)
	if err == nil {
		err = s.materialize(records)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("library", prev).Msg("restoring meshes failed")
	}
}

// materialize replaces every generated mesh with one per record.
func (s *Session) materialize(records []library.Record) error {
	r := s.opts.Resolver
	if err := r.EnsureDirs(); err != nil {
		return err
	}
	purged, err := r.Purge(r.MeshDir, assets.MeshExt)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := r.WriteMesh(rec.Name, rec.Body); err != nil {
			return err
		}
	}
	s.log.Debug().Int("purged", purged).Int("written", len(records)).Msg("meshes materialized")
	return nil
}

// Save exports selection from the host and appends it to the active library
// as name. It returns the number of body lines saved.
func (s *Session) Save(ctx context.Context, name string, selection []string) (int, error) {
	if s.library == "" {
		return 0, s.failed("save", ErrNoLibrary)
	}
	if err := library.ValidateName(name); err != nil {
		return 0, s.failed("save", err)
	}
	if err := assets.CheckName(name); err != nil {
		return 0, s.failed("save", err)
	}
	existing, err := library.Names(s.library, s.opts.Mode)
	if err != nil {
		return 0, s.failed("save", err)
	}
	for _, n := range existing {
		if n == name {
			return 0, s.failed("save", &DuplicateNameError{Name: name, Library: s.library})
		}
	}

	body, err := s.opts.Host.Export(ctx, selection)
	if err != nil {
		return 0, s.failed("save", fmt.Errorf("exporting selection: %w", err))
	}
	rec := library.Record{Name: name, Body: body}
	if err := library.Append(s.library, rec); err != nil {
		return 0, s.failed("save", err)
	}
	if err := s.opts.Resolver.EnsureDirs(); err != nil {
		return 0, s.failed("save", err)
	}
	if _, err := s.opts.Resolver.WriteMesh(name, body); err != nil {
		return 0, s.failed("save", err)
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.Upsert(ctx, s.library, name, len(body)); err != nil {
			return 0, s.failed("save", err)
		}
	}

	s.log.Info().Str("primitive", name).Int("lines", len(body)).Msg("primitive saved")
	s.emit(telemetry.Event{
		Kind:      telemetry.KindPrimitiveSaved,
		Library:   s.library,
		Primitive: name,
		Data:      map[string]int{"lines": len(body)},
	})
	return len(body), nil
}

// Delete removes name from the active library along with its mesh and
// thumbnail. The shared default thumbnail is never deleted. The boolean
// reports whether a block was removed; when it is false nothing is touched.
func (s *Session) Delete(ctx context.Context, name string) (bool, error) {
	if s.library == "" {
		return false, s.failed("delete", ErrNoLibrary)
	}
	removed, err := library.Remove(s.library, name, library.RemoveOptions{Match: s.opts.Match})
	if err != nil {
		return false, s.failed("delete", err)
	}
	if !removed {
		s.log.Debug().Str("primitive", name).Msg("nothing to delete")
		return false, nil
	}

	r := s.opts.Resolver
	if _, err := r.Remove(r.MeshDir, name, assets.MeshExt); err != nil {
		return true, s.failed("delete", err)
	}
	if name+assets.ThumbnailExt != assets.DefaultThumbnail {
		if _, err := r.Remove(r.ThumbnailDir, name, assets.ThumbnailExt); err != nil {
			return true, s.failed("delete", err)
		}
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.Delete(ctx, s.library, name); err != nil {
			return true, s.failed("delete", err)
		}
	}

	s.log.Info().Str("primitive", name).Stringer("match", s.opts.Match).Msg("primitive deleted")
	s.emit(telemetry.Event{Kind: telemetry.KindPrimitiveDeleted, Library: s.library, Primitive: name})
	return true, nil
}

// Instance imports the mesh for name into the host and renames each entity
// the import created to <name>_001, <name>_002, ... It returns the names the
// host applied.
func (s *Session) Instance(ctx context.Context, name string) ([]string, error) {
	mesh, err := s.opts.Resolver.Mesh(name)
	if err != nil {
		return nil, s.failed("instance", err)
	}
	entities, err := s.opts.Host.Import(ctx, mesh)
	if err != nil {
		return nil, s.failed("instance", fmt.Errorf("importing %s: %w", mesh, err))
	}

	targets := assets.RenameInstances(entities, name)
	applied := make([]string, 0, len(entities))
	for i, entity := range entities {
		final, err := s.opts.Host.Rename(ctx, entity, targets[i])
		if err != nil {
			return applied, s.failed("instance", fmt.Errorf("renaming %s: %w", entity, err))
		}
		applied = append(applied, final)
	}

	s.log.Info().Str("primitive", name).Strs("entities", applied).Msg("primitive instanced")
	s.emit(telemetry.Event{
		Kind:      telemetry.KindPrimitiveInstanced,
		Library:   s.library,
		Primitive: name,
		Data:      map[string][]string{"entities": applied},
	})
	return applied, nil
}

// Export copies the active library to dst atomically.
func (s *Session) Export(ctx context.Context, dst string) error {
	if s.library == "" {
		return s.failed("export", ErrNoLibrary)
	}
	if err := library.Export(s.library, dst); err != nil {
		return s.failed("export", err)
	}
	s.log.Info().Str("dest", dst).Msg("library exported")
	s.emit(telemetry.Event{
		Kind:    telemetry.KindLibraryExport,
		Library: s.library,
		Data:    map[string]string{"dest": dst},
	})
	return nil
}

func (s *Session) setLibrary(path string) error {
	if s.opts.StatePath != "" {
		st := &State{Version: 1, Library: path, UpdatedAt: s.now().UTC()}
		if err := SaveState(s.opts.StatePath, st); err != nil {
			return err
		}
	}
	s.library = path
	return nil
}

func (s *Session) emit(evt telemetry.Event) {
	if err := s.opts.Journal.Emit(evt); err != nil {
		s.log.Warn().Err(err).Str("kind", evt.Kind).Msg("journal write failed")
	}
}

// failed records a failed operation and returns err unchanged.
func (s *Session) failed(op string, err error) error {
	s.log.Debug().Err(err).Str("op", op).Msg("operation failed")
	s.emit(telemetry.Event{
		Kind:    telemetry.KindOperationFailed,
		Library: s.library,
		Data:    map[string]string{"op": op, "error": err.Error()},
	})
	return err
}
