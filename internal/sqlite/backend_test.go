// Tests for the SQLite backend lifecycle and transaction boundary.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

func testBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(tmpDir, "taskdesk.db")); os.IsNotExist(err) {
		t.Error("taskdesk.db not created")
	}

	if err := b.Attach(cfg); !errors.Is(err, types.ErrAlreadyAttached) {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres"})
	if !errors.Is(err, types.ErrBackendUnknown) {
		t.Fatalf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	if err := b.Attach(cfg); err != nil {
		t.Fatal(err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	_, err := b.Users().Get(1)
	if !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
	if err := b.InTx(func(types.Store) error { return nil }); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("expected ErrStoreDetached from InTx, got %v", err)
	}
}

func TestBackend_AttachPersistsData(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend()
	if err := b.Attach(cfg); err != nil {
		t.Fatal(err)
	}
	id, err := b.Users().Save(&types.User{FirstName: "Ana", LastName: "Petrov", Email: "ana@example.com", Role: types.RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Detach(); err != nil {
		t.Fatal(err)
	}

	// Re-attach the same data dir and read the row back.
	b2 := NewBackend()
	if err := b2.Attach(cfg); err != nil {
		t.Fatal(err)
	}
	defer b2.Detach()

	user, err := b2.Users().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected persisted email, got %q", user.Email)
	}
}

func TestBackend_InTx(t *testing.T) {
	t.Run("commit on success", func(t *testing.T) {
		b := testBackend(t)
		err := b.InTx(func(s types.Store) error {
			_, err := s.Users().Save(&types.User{FirstName: "A", LastName: "B", Email: "a@b.c", Role: types.RoleUser})
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Users().GetByEmail("a@b.c"); err != nil {
			t.Fatalf("expected committed user, got %v", err)
		}
	})

	t.Run("rollback on error", func(t *testing.T) {
		b := testBackend(t)
		boom := errors.New("boom")
		err := b.InTx(func(s types.Store) error {
			if _, err := s.Users().Save(&types.User{FirstName: "A", LastName: "B", Email: "x@y.z", Role: types.RoleUser}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if _, err := b.Users().GetByEmail("x@y.z"); !errors.Is(err, types.ErrNotFound) {
			t.Fatalf("expected rollback, got %v", err)
		}
	})

	t.Run("nested InTx joins the transaction", func(t *testing.T) {
		b := testBackend(t)
		err := b.InTx(func(s types.Store) error {
			return s.InTx(func(inner types.Store) error {
				_, err := inner.Users().Save(&types.User{FirstName: "A", LastName: "B", Email: "n@n.n", Role: types.RoleUser})
				return err
			})
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Users().GetByEmail("n@n.n"); err != nil {
			t.Fatalf("expected committed user, got %v", err)
		}
	})
}
