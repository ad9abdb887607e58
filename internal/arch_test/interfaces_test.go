package arch_test

import (
	"go/ast"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// interfaces maps package name to the sorted interface types it declares.
func interfaces(t *testing.T) map[string][]string {
	t.Helper()
	out := make(map[string][]string)
	for name, p := range loadPackages(t) {
		p.typeSpecs(func(_ string, ts *ast.TypeSpec) {
			if _, ok := ts.Type.(*ast.InterfaceType); ok {
				out[name] = append(out[name], ts.Name.Name)
			}
		})
		sort.Strings(out[name])
	}
	return out
}

// Interfaces are declared by the package that consumes them: the session
// owns the host and index contracts, the gallery owns its view of the
// session. Implementations (scene, catalog, session) declare none.
func TestInterfacesLiveWithConsumers(t *testing.T) {
	t.Parallel()

	got := interfaces(t)
	want := map[string][]string{
		"session": {"Exporter", "Host", "Importer", "Index", "Renamer"},
		"tui":     {"Library"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("interface declarations (-want +got):\n%s", diff)
	}
}
