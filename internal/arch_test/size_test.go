package arch_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFilesPerPackage = 20
	maxLinesPerFile    = 400
)

func TestPackageAndFileSize(t *testing.T) {
	t.Parallel()

	root := filepath.Dir(internalDir(t))
	for name, p := range loadPackages(t) {
		if n := len(p.Files); n > maxFilesPerPackage {
			t.Errorf("package %s has %d files (limit %d)", name, n, maxFilesPerPackage)
		}
		for _, path := range sourceFiles(t, p.Dir, true) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}
			if n := bytes.Count(data, []byte("\n")); n > maxLinesPerFile {
				rel, _ := filepath.Rel(root, path)
				t.Errorf("%s has %d lines (limit %d)", rel, n, maxLinesPerFile)
			}
		}
	}
}
