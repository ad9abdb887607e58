// Package library reads and writes .prim library files: a flat text file of
// named mesh blocks, each delimited by beginMesh and endMesh marker lines.
package library

import (
	"fmt"
	"strings"
)

// Block marker lines.
const (
	BeginMarker = "beginMesh"
	EndMarker   = "endMesh"
)

// Extension is the file extension of library files.
const Extension = ".prim"

// Record is one named primitive. Body lines are opaque geometry text.
type Record struct {
	Name string
	Body []string
}

// ValidateName reports whether name can be written as a block name line.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is blank", ErrInvalidRecord)
	case strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("%w: name %q contains a line break", ErrInvalidRecord, name)
	case strings.Contains(name, BeginMarker), strings.Contains(name, EndMarker):
		return fmt.Errorf("%w: name %q contains a block marker", ErrInvalidRecord, name)
	}
	return nil
}

// Validate checks that the record round-trips through the file encoding.
func (r Record) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: %q has an empty body", ErrInvalidRecord, r.Name)
	}
	for i, line := range r.Body {
		if strings.ContainsAny(line, "\r\n") {
			return fmt.Errorf("%w: %q body line %d contains a line break", ErrInvalidRecord, r.Name, i+1)
		}
		if line == BeginMarker || line == EndMarker {
			return fmt.Errorf("%w: %q body line %d is a block marker", ErrInvalidRecord, r.Name, i+1)
		}
	}
	return nil
}
