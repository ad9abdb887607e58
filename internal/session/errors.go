package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLibrary indicates an operation needs an active library and none is open.
	ErrNoLibrary = errors.New("no library open")
	// ErrLibraryNotFound indicates Open was given a path that does not exist.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrPrimitiveNotFound indicates the active library has no block by that name.
	ErrPrimitiveNotFound = errors.New("primitive not found")
)

// DuplicateNameError reports a save under a name the active library already
// holds.
type DuplicateNameError struct {
	Name    string
	Library string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("primitive %q already exists in %s", e.Name, e.Library)
}
