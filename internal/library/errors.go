package library

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for library file operations.
var (
	// ErrInvalidRecord indicates a record cannot be encoded without breaking
	// the block structure of the library file.
	ErrInvalidRecord = errors.New("invalid primitive record")
	// ErrLibraryExists indicates Create was asked to make a library that is
	// already on disk.
	ErrLibraryExists = errors.New("library file already exists")
	// ErrMalformed is the sentinel every FormatError unwraps to.
	ErrMalformed = errors.New("malformed library file")
)

// IOError records a failed file operation on a library path.
type IOError struct {
	Op   string // "open", "read", "write", "replace"
	Path string
	Err  error
}

// Error returns "<op> <path>: <cause>".
func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatCategory classifies a structural problem found by a strict decode.
type FormatCategory string

const (
	// FormatOrphanEnd is an endMesh with no open block.
	FormatOrphanEnd FormatCategory = "orphan_end"
	// FormatNestedBegin is a beginMesh inside an open block.
	FormatNestedBegin FormatCategory = "nested_begin"
	// FormatMissingName is a beginMesh with no preceding name line.
	FormatMissingName FormatCategory = "missing_name"
	// FormatUnterminated is an open block at end of file.
	FormatUnterminated FormatCategory = "unterminated"
	// FormatDuplicateName is a name that appears on more than one block.
	FormatDuplicateName FormatCategory = "duplicate_name"
)

// FormatError reports a malformed block structure with its 1-based line.
type FormatError struct {
	Category FormatCategory
	Line     int
	Name     string
}

// Error returns a human-readable description including the line number.
func (e *FormatError) Error() string {
	msg := "line " + strconv.Itoa(e.Line) + ": " + string(e.Category)
	if e.Name != "" {
		msg += fmt.Sprintf(" (%q)", e.Name)
	}
	return msg
}

// Unwrap lets callers match any FormatError with errors.Is(err, ErrMalformed).
func (e *FormatError) Unwrap() error {
	return ErrMalformed
}
