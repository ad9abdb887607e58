package assets

import "errors"

// Sentinel errors for asset lookups. A *LookupError matches one of these via
// errors.Is.
var (
	// ErrEmptyDirectory indicates the directory has no files with the
	// requested extension at all.
	ErrEmptyDirectory = errors.New("no assets with that extension")
	// ErrNotFound indicates no file stem equals the requested name.
	ErrNotFound = errors.New("asset not found")
)

// LookupKind classifies a lookup miss.
type LookupKind string

const (
	// LookupEmptyDirectory is reported when no entry has the extension.
	LookupEmptyDirectory LookupKind = "empty_directory"
	// LookupNotFound is reported when entries exist but none match the name.
	LookupNotFound LookupKind = "not_found"
)

// LookupError is a recoverable asset resolution miss.
type LookupError struct {
	Kind LookupKind
	Dir  string
	Name string
	Ext  string
}

// Error names the missing asset and the directory that was searched.
func (e *LookupError) Error() string {
	if e.Kind == LookupEmptyDirectory {
		return "no " + e.Ext + " files in " + e.Dir
	}
	return e.Name + e.Ext + " not found in " + e.Dir
}

// Is maps the lookup kind onto ErrEmptyDirectory and ErrNotFound.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrEmptyDirectory:
		return e.Kind == LookupEmptyDirectory
	case ErrNotFound:
		return e.Kind == LookupNotFound
	}
	return false
}
