package assets

import "fmt"

// RenameInstances returns one final name per imported entity, in input
// order: "<base>_001", "<base>_002", and so on.
func RenameInstances(entities []string, base string) []string {
	names := make([]string, len(entities))
	for i := range entities {
		names[i] = fmt.Sprintf("%s_%03d", base, i+1)
	}
	return names
}
