// Package ui formats CLI output. Listings go to Out so they can be piped;
// status lines, confirmations and errors go to Err.
package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/prim/internal/catalog"
	"github.com/papapumpkin/prim/internal/session"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

type Printer struct {
	Out io.Writer
	Err io.Writer
}

func New() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// NewWith returns a Printer writing to the given streams.
func NewWith(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut}
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.Err, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.Err, dim+"%s"+reset+"\n", msg)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.Err, green+"✓ "+reset+"%s\n", msg)
}

func (p *Printer) Prompt(msg string) {
	fmt.Fprintf(p.Err, yellow+bold+"? "+reset+"%s ", msg)
}

func (p *Printer) LibraryCreated(path string) {
	fmt.Fprintf(p.Err, green+bold+"✓ created"+reset+" %s\n", path)
}

func (p *Printer) LibraryOpened(path string, names []string) {
	fmt.Fprintf(p.Err, cyan+"◆ opened"+reset+" %s "+dim+"(%s)"+reset+"\n", path, plural(len(names), "primitive"))
	for _, n := range names {
		fmt.Fprintln(p.Out, n)
	}
}

func (p *Printer) Saved(name string, lines int) {
	fmt.Fprintf(p.Err, green+"✓ saved"+reset+" %s "+dim+"(%s)"+reset+"\n", name, plural(lines, "line"))
}

func (p *Printer) Deleted(name string, removed bool) {
	if !removed {
		fmt.Fprintf(p.Err, yellow+"• no primitive named"+reset+" %s\n", name)
		return
	}
	fmt.Fprintf(p.Err, green+"✓ deleted"+reset+" %s\n", name)
}

func (p *Printer) Instanced(name string, entities []string) {
	fmt.Fprintf(p.Err, green+"✓ instanced"+reset+" %s "+dim+"→"+reset+" %s\n", name, strings.Join(entities, ", "))
}

func (p *Printer) Exported(dst string, size int64) {
	fmt.Fprintf(p.Err, green+"✓ exported"+reset+" %s "+dim+"(%s)"+reset+"\n", dst, humanize.IBytes(uint64(size)))
}

// Primitives prints one line per card: name, body line count and whether
// the mesh and a dedicated thumbnail are present.
func (p *Printer) Primitives(cards []session.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(p.Err, dim+"(no primitives)"+reset)
		return
	}
	width := 0
	for _, c := range cards {
		width = max(width, len(c.Name))
	}
	for _, c := range cards {
		mesh := "mesh"
		if c.Mesh == "" {
			mesh = "no mesh"
		}
		thumb := filepath.Base(c.Thumbnail)
		if c.Thumbnail == "" {
			thumb = "-"
		}
		fmt.Fprintf(p.Out, "%-*s  %6s  %-7s  %s\n", width, c.Name, plural(c.Lines, "line"), mesh, thumb)
	}
}

// Show prints a card header followed by its body lines.
func (p *Printer) Show(card session.Card, body []string) {
	fmt.Fprintf(p.Err, bold+"%s"+reset+dim+"  %s"+reset+"\n", card.Name, plural(card.Lines, "line"))
	if card.Mesh != "" {
		fmt.Fprintf(p.Err, "  mesh:       %s\n", card.Mesh)
	}
	if card.Thumbnail != "" {
		fmt.Fprintf(p.Err, "  thumbnail:  %s\n", card.Thumbnail)
	}
	for _, line := range body {
		fmt.Fprintln(p.Out, line)
	}
}

// ValidateResult reports a strict decode of path. err may join several
// *library.FormatError values.
func (p *Printer) ValidateResult(path string, count int, err error) {
	if err == nil {
		fmt.Fprintf(p.Err, green+bold+"✓ %s"+reset+": %s, no errors\n", filepath.Base(path), plural(count, "primitive"))
		return
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	fmt.Fprintf(p.Err, red+bold+"✗ %s"+reset+": %s:\n", filepath.Base(path), plural(len(errs), "error"))
	for _, e := range errs {
		fmt.Fprintf(p.Err, "  "+red+"• "+reset+"%s\n", e.Error())
	}
}

// SearchResults prints catalog matches grouped by library.
func (p *Printer) SearchResults(entries []catalog.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(p.Err, dim+"(no matches)"+reset)
		return
	}
	last := ""
	for _, e := range entries {
		if e.Library != last {
			fmt.Fprintf(p.Out, "%s\n", e.Library)
			last = e.Library
		}
		fmt.Fprintf(p.Out, "  %s  %s  %s\n", e.Name, plural(e.Lines, "line"), humanize.RelTime(e.IndexedAt, now, "ago", "from now"))
	}
}

// StatusData is everything the status command reports.
type StatusData struct {
	Library    string
	Size       int64
	Primitives int
	Meshes     int
	Thumbnails int
	MatchMode  string
	Strict     bool
	Catalog    string
}

func (p *Printer) Status(d StatusData) {
	fmt.Fprintln(p.Err, dim+"session:"+reset)
	if d.Library == "" {
		fmt.Fprintf(p.Err, "  library:     (none)\n")
	} else {
		fmt.Fprintf(p.Err, "  library:     %s (%s, %s)\n", d.Library, humanize.IBytes(uint64(d.Size)), plural(d.Primitives, "primitive"))
	}
	fmt.Fprintf(p.Err, "  meshes:      %d\n", d.Meshes)
	fmt.Fprintf(p.Err, "  thumbnails:  %d\n", d.Thumbnails)
	fmt.Fprintf(p.Err, "  match mode:  %s\n", d.MatchMode)
	fmt.Fprintf(p.Err, "  strict:      %t\n", d.Strict)
	if d.Catalog != "" {
		fmt.Fprintf(p.Err, "  catalog:     %s\n", d.Catalog)
	} else {
		fmt.Fprintf(p.Err, "  catalog:     (disabled)\n")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
