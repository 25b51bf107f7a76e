// Package sqlite implements the record store behind the relationship kinds.
// records.jsonl in the data directory is the source of truth; it is loaded
// into a fresh SQLite database on Attach, which then serves lookups and
// listings. Every write is persisted back to records.jsonl atomically.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// dbFile is the SQLite database rebuilt on every Attach.
const dbFile = "relations.db"

// Backend is a SQLite-backed types.RecordStore.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB

	now func() time.Time
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{now: func() time.Time { return time.Now().UTC() }}
}

// Attach creates DataDir if needed, builds a fresh SQLite schema, and loads
// records.jsonl into it. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The database is a cache of records.jsonl; start from scratch.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	jsonlPath := filepath.Join(dataDir, recordsFile)
	if err := ensureJSONL(jsonlPath); err != nil {
		db.Close()
		return fmt.Errorf("init %s: %w", recordsFile, err)
	}
	if err := loadRecords(db, jsonlPath); err != nil {
		db.Close()
		return fmt.Errorf("load %s: %w", recordsFile, err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. It is idempotent; afterwards every operation
// returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// generateUUID generates a new UUID v7 for record IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
