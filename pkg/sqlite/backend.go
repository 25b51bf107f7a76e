// Package sqlite provides the public API for the SQLite record store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/relations/internal/sqlite"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// NewBackend creates a new SQLite record store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".relations-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
