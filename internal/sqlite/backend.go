// Package sqlite implements the SQLite entity store for taskdesk.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Compile-time interface checks.
var (
	_ types.Store = (*Backend)(nil)
	_ types.Store = (*txStore)(nil)
)

// Backend implements the types.Store interface on a SQLite database file.
// The zero value is not usable; call NewBackend and Attach.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Table accessors run against a querier so the same code serves both
// auto-commit and transaction-scoped access.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the database under config.DataDir and applies
// the schema. Returns ErrAlreadyAttached if already attached.
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
		return err
	}

	dbPath := filepath.Join(dataDir, "taskdesk.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	return nil
}

// Detach closes the database. After Detach, operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
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

// DataDir returns the data directory of the attached backend.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// querier returns the live database handle, or ErrStoreDetached.
func (b *Backend) querier() (querier, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// Users returns the user table accessor.
func (b *Backend) Users() types.UserTable {
	return &usersTable{src: b}
}

// Tasks returns the task table accessor.
func (b *Backend) Tasks() types.TaskTable {
	return &tasksTable{src: b}
}

// Comments returns the comment table accessor.
func (b *Backend) Comments() types.CommentTable {
	return &commentsTable{src: b}
}

// InTx runs fn against a transaction-scoped store. If fn returns an error
// the transaction is rolled back and the error returned unchanged;
// otherwise the transaction commits.
func (b *Backend) InTx(fn func(types.Store) error) error {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return types.ErrStoreDetached
	}
	db := b.db
	b.mu.RUnlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// txStore is the transaction-scoped view of the store handed to InTx
// callbacks. All accessors run against the same *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Users() types.UserTable       { return &usersTable{src: s} }
func (s *txStore) Tasks() types.TaskTable       { return &tasksTable{src: s} }
func (s *txStore) Comments() types.CommentTable { return &commentsTable{src: s} }

// InTx on a transaction-scoped store joins the enclosing transaction;
// SQLite has a single writer and the service layer never needs savepoints.
func (s *txStore) InTx(fn func(types.Store) error) error {
	return fn(s)
}

func (s *txStore) querier() (querier, error) {
	return s.tx, nil
}

// querierSource hands table accessors their querier: the live *sql.DB for
// a Backend, the enclosing *sql.Tx for a txStore.
type querierSource interface {
	querier() (querier, error)
}
