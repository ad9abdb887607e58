package library

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// MatchMode selects how Remove locates the block to delete.
type MatchMode int

const (
	// MatchSubstring matches the first line outside a skipped span whose
	// content contains the name. This is the historical behaviour and can hit
	// a different block whose name (or body) merely contains the name.
	MatchSubstring MatchMode = iota
	// MatchExact matches only a parsed name line equal to the name.
	MatchExact
)

// String returns the config spelling of the mode.
func (m MatchMode) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "substring"
}

// ParseMatchMode maps "exact" or "substring" to a MatchMode.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return MatchExact, true
	case "substring", "legacy":
		return MatchSubstring, true
	}
	return MatchSubstring, false
}

// RemoveOptions controls Remove.
type RemoveOptions struct {
	Match MatchMode
}

// Remove deletes the first block matching name from the library at path and
// reports whether one was removed. Every line outside the dropped span is
// copied byte for byte, blank separators included. The file is replaced
// atomically; when nothing matches it is left untouched.
func Remove(path, name string, opts RemoveOptions) (bool, error) {
	if name == "" {
		return false, nil
	}

	var drop func(lineNo int, content string) bool
	switch opts.Match {
	case MatchExact:
		start, end, found, err := exactSpan(path, name)
		if err != nil || !found {
			return false, err
		}
		drop = func(lineNo int, _ string) bool {
			return lineNo >= start && lineNo <= end
		}
	default:
		drop = substringDropper(name)
	}
	return rewrite(path, drop)
}

// substringDropper returns a line filter that drops from the first line
// containing name through the next endMesh line.
func substringDropper(name string) func(int, string) bool {
	skipping, matched := false, false
	return func(_ int, content string) bool {
		if skipping {
			if content == EndMarker {
				skipping = false
			}
			return true
		}
		if !matched && strings.Contains(content, name) {
			skipping, matched = true, true
			return true
		}
		return false
	}
}

// exactSpan locates the 1-based line span of the first complete block named
// exactly name: from its name line through its endMesh.
func exactSpan(path, name string) (start, end int, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	entries, err := decodeEntries(f, Lenient)
	if err != nil {
		return 0, 0, false, &IOError{Op: "read", Path: path, Err: err}
	}
	for _, e := range entries {
		if e.Name == name {
			return e.line, e.end, true, nil
		}
	}
	return 0, 0, false, nil
}

// rewrite streams path into a pending file, skipping lines for which drop
// returns true, and swaps it into place only if something was dropped.
func rewrite(path string, drop func(lineNo int, content string) bool) (bool, error) {
	src, err := os.Open(path)
	if err != nil {
		return false, &IOError{Op: "open", Path: path, Err: err}
	}
	defer src.Close()

	pending, err := renameio.NewPendingFile(path, renameio.WithExistingPermissions())
	if err != nil {
		return false, &IOError{Op: "open", Path: path, Err: err}
	}
	// No-op once CloseAtomicallyReplace has succeeded.
	defer pending.Cleanup()

	r := bufio.NewReader(src)
	w := bufio.NewWriter(pending)
	removed := false
	for lineNo := 1; ; lineNo++ {
		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return false, &IOError{Op: "read", Path: path, Err: readErr}
		}
		if raw != "" {
			content := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
			if drop(lineNo, content) {
				removed = true
			} else if _, err := w.WriteString(raw); err != nil {
				return false, &IOError{Op: "write", Path: path, Err: err}
			}
		}
		if readErr != nil {
			break
		}
	}
	if !removed {
		return false, nil
	}

	if err := w.Flush(); err != nil {
		return false, &IOError{Op: "write", Path: path, Err: err}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return false, &IOError{Op: "replace", Path: path, Err: err}
	}
	return true, nil
}
