package tui

import (
	"github.com/papapumpkin/prim/internal/session"
	"github.com/papapumpkin/prim/internal/watch"
)

// MsgCards carries a freshly loaded card list.
type MsgCards struct {
	Cards []session.Card
	Err   error
}

// MsgInstanced reports the result of instancing a primitive.
type MsgInstanced struct {
	Name     string
	Entities []string
	Err      error
}

// MsgDeleted reports the result of deleting a primitive.
type MsgDeleted struct {
	Name    string
	Removed bool
	Err     error
}

// MsgChange is a filesystem change from the watcher.
type MsgChange struct {
	Change watch.Change
}
