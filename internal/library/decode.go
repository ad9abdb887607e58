package library

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// Mode selects how Decode treats malformed block structure.
type Mode int

const (
	// Lenient silently drops incomplete or malformed blocks.
	Lenient Mode = iota
	// Strict stops at the first structural problem with a *FormatError.
	Strict
)

// maxLineSize bounds a single body line. Geometry lines can be long.
const maxLineSize = 16 << 20

// entry is a decoded record plus the 1-based lines of its name and endMesh.
type entry struct {
	Record
	line int
	end  int
}

// Decode reads every complete block from r in file order. Lines outside a
// beginMesh/endMesh span are ignored. In Lenient mode orphan endMesh lines,
// nameless blocks, nested beginMesh lines and an unterminated trailing block
// are dropped without error; in Strict mode each is reported as a
// *FormatError.
func Decode(r io.Reader, mode Mode) ([]Record, error) {
	entries, err := decodeEntries(r, mode)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record)
	}
	return records, nil
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string, mode Mode) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	records, err := Decode(f, mode)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return records, nil
}

// Names returns the primitive names in the library at path, in file order.
func Names(path string, mode Mode) ([]string, error) {
	records, err := DecodeFile(path, mode)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names, nil
}

// Validate decodes path strictly and additionally reports names that appear
// on more than one block. All duplicate problems are joined into one error.
func Validate(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	entries, err := decodeEntries(f, Strict)
	if err != nil {
		return nil, err
	}

	var errs []error
	seen := make(map[string]bool, len(entries))
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			errs = append(errs, &FormatError{Category: FormatDuplicateName, Line: e.line, Name: e.Name})
		}
		seen[e.Name] = true
		records = append(records, e.Record)
	}
	return records, errors.Join(errs...)
}

func decodeEntries(r io.Reader, mode Mode) ([]entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		out       []entry
		open      bool
		name      string
		nameLine  int
		beginLine int
		body      []string
		prev      string // last non-empty line seen
		prevLine  int
		lineNo    int
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")

		switch {
		case line == BeginMarker:
			if open && mode == Strict {
				return nil, &FormatError{Category: FormatNestedBegin, Line: lineNo, Name: name}
			}
			if prev == "" && mode == Strict {
				return nil, &FormatError{Category: FormatMissingName, Line: lineNo}
			}
			// A nested begin restarts the block; the open one is dropped.
			open, name, nameLine, beginLine, body = true, prev, prevLine, lineNo, nil
			prev = ""

		case line == EndMarker:
			if !open {
				if mode == Strict {
					return nil, &FormatError{Category: FormatOrphanEnd, Line: lineNo}
				}
				continue
			}
			if name != "" {
				out = append(out, entry{Record: Record{Name: name, Body: body}, line: nameLine, end: lineNo})
			}
			open, name, body = false, "", nil
			prev = ""

		default:
			if open {
				body = append(body, line)
			}
			if line != "" {
				prev, prevLine = line, lineNo
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if open && mode == Strict {
		return nil, &FormatError{Category: FormatUnterminated, Line: beginLine, Name: name}
	}
	return out, nil
}
