package library

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
)

// Encode writes rec as one block: a blank separator line, the name line,
// beginMesh, every body line verbatim, and endMesh.
func Encode(w io.Writer, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("\n")
	bw.WriteString(rec.Name + "\n")
	bw.WriteString(BeginMarker + "\n")
	for _, line := range rec.Body {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	bw.WriteString(EndMarker + "\n")
	return bw.Flush()
}

// Append adds rec to the end of the library at path, creating the file if
// needed. Duplicate names are not checked here; callers own that.
func Append(path string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if err := Encode(f, rec); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Create makes a new empty library file. It refuses to touch an existing one.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrLibraryExists, path)
		}
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Export copies the library at src to dst, replacing dst atomically.
func Export(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return &IOError{Op: "read", Path: src, Err: err}
	}
	if err := renameio.WriteFile(dst, data, 0o644); err != nil {
		return &IOError{Op: "replace", Path: dst, Err: err}
	}
	return nil
}
