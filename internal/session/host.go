package session

import "context"

// Importer brings the geometry file at path into the host scene and returns
// the names of the entities it created, in creation order.
type Importer interface {
	Import(ctx context.Context, path string) ([]string, error)
}

// Exporter returns the geometry text lines for the selected entities.
type Exporter interface {
	Export(ctx context.Context, selection []string) ([]string, error)
}

// Renamer renames a scene entity and returns the name the host applied,
// which may differ from the one requested when it is already taken.
type Renamer interface {
	Rename(ctx context.Context, entity, name string) (string, error)
}

// Host is the 3D application prim drives.
type Host interface {
	Importer
	Exporter
	Renamer
}

// Index is the optional cross-library primitive index kept in step with
// every library mutation.
type Index interface {
	Upsert(ctx context.Context, library, name string, lines int) error
	Delete(ctx context.Context, library, name string) error
	ReplaceLibrary(ctx context.Context, library string, entries map[string]int) error
}
