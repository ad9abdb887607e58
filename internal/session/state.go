package session

import (
	"fmt"
	"os"
	"time"

	"github.com/google/renameio/v2"
	toml "github.com/pelletier/go-toml/v2"
)

// State is the persisted part of a session: which library is active.
type State struct {
	Version   int       `toml:"version"`
	Library   string    `toml:"library"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// LoadState reads the state file at path.
// Returns an empty state if the file does not exist.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Version: 1}, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var st State
	if err := toml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// SaveState writes the state file atomically.
func SaveState(path string, st *State) error {
	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}
