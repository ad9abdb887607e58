package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// stylePrefixes names the lipgloss vars each package may keep at package
// level.
var stylePrefixes = map[string][]string{
	"tui": {"style", "color"},
}

// isSentinel reports whether v is initialized with errors.New.
func isSentinel(v ast.Expr) bool {
	call, ok := v.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == "errors" && sel.Sel.Name == "New"
}

// TestNoPackageState allows package-level vars only for error sentinels and
// the gallery's style table. Everything else lives on a struct.
func TestNoPackageState(t *testing.T) {
	t.Parallel()

	for name, p := range loadPackages(t) {
		for file, f := range p.Files {
			for _, d := range f.Decls {
				gd, ok := d.(*ast.GenDecl)
				if !ok || gd.Tok != token.VAR {
					continue
				}
				for _, s := range gd.Specs {
					vs := s.(*ast.ValueSpec)
					for i, id := range vs.Names {
						if id.Name == "_" || hasPrefix(id.Name, stylePrefixes[name]) {
							continue
						}
						if i < len(vs.Values) && isSentinel(vs.Values[i]) {
							continue
						}
						t.Errorf("%s/%s: package-level var %s", name, file, id.Name)
					}
				}
			}
		}
	}
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func TestIsSentinel(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		`errors.New("x")`:       true,
		`fmt.Errorf("x")`:       false,
		`make(map[string]bool)`: false,
		`"literal"`:             false,
	}
	for src, want := range tests {
		expr, err := parser.ParseExpr(src)
		if err != nil {
			t.Fatalf("parsing %s: %v", src, err)
		}
		if got := isSentinel(expr); got != want {
			t.Errorf("isSentinel(%s) = %v, want %v", src, got, want)
		}
	}
}
