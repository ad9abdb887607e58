// Package watch reports changes to the active library file and its asset
// directories so views can refresh when another process edits them.
package watch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/papapumpkin/prim/internal/assets"
	"github.com/papapumpkin/prim/internal/log"
)

// debounce is how long a path must stay quiet before its change is emitted.
const debounce = 100 * time.Millisecond

// Kind describes the type of change detected.
type Kind int

const (
	Modified Kind = iota // file written or created
	Removed              // file deleted or renamed away
)

func (k Kind) String() string {
	if k == Removed {
		return "removed"
	}
	return "modified"
}

// Change is one debounced file change.
type Change struct {
	Kind Kind
	Path string
}

// Watcher monitors the directory of one library file plus the mesh and
// thumbnail directories.
type Watcher struct {
	Library string
	Dirs    []string
	Changes <-chan Change // Read-only external channel

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

// New creates a watcher for library and the given asset directories.
// library may be empty when no library is open.
func New(logger zerolog.Logger, library string, assetDirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		log:     log.WithComponent(logger, "watch"),
	}
	if library != "" {
		w.Library = filepath.Clean(library)
	}
	for _, d := range assetDirs {
		w.Dirs = append(w.Dirs, filepath.Clean(d))
	}
	return w, nil
}

// Start begins watching. Every directory must exist.
func (w *Watcher) Start() error {
	seen := make(map[string]bool)
	dirs := append([]string(nil), w.Dirs...)
	if w.Library != "" {
		dirs = append(dirs, filepath.Dir(w.Library))
	}
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		if err := w.watcher.Add(d); err != nil {
			w.watcher.Close()
			close(w.done)
			return err
		}
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for path := range pending {
					w.emit(path)
				}
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for path, t := range pending {
				if now.Sub(t) >= debounce {
					w.emit(path)
					delete(pending, path)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// relevant reports whether path is the library itself or a mesh or
// thumbnail inside one of the asset directories.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.Library != "" && path == w.Library {
		return true
	}
	switch filepath.Ext(path) {
	case assets.MeshExt, assets.ThumbnailExt:
	default:
		return false
	}
	dir := filepath.Dir(path)
	for _, d := range w.Dirs {
		if d == dir {
			return true
		}
	}
	return false
}

// emit sends the change without blocking; a full buffer already guarantees
// the consumer will refresh.
func (w *Watcher) emit(path string) {
	kind := Modified
	if _, err := os.Stat(path); err != nil {
		kind = Removed
	}
	select {
	case w.changes <- Change{Kind: kind, Path: path}:
	default:
		w.log.Debug().Str("path", path).Msg("change dropped, buffer full")
	}
}
