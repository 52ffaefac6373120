// This file implements snapshot export and import: the full store contents
// written as JSONL files plus a uuid-stamped manifest, and restored from
// the same layout inside a single transaction.
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// Snapshot file names.
const (
	manifestFile      = "manifest.json"
	usersJSONLFile    = "users.jsonl"
	tasksJSONLFile    = "tasks.jsonl"
	commentsJSONLFile = "comments.jsonl"
)

// Manifest describes one exported snapshot.
type Manifest struct {
	SnapshotID string    `json:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at"`
	Users      int       `json:"users"`
	Tasks      int       `json:"tasks"`
	Comments   int       `json:"comments"`
}

// userRecord is the JSONL form of a user, password hash included so a
// snapshot round-trips completely.
type userRecord struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"password_hash"`
	Role            string  `json:"role"`
	AuthoredTaskIDs []int64 `json:"authored_task_ids"`
	ExecutedTaskIDs []int64 `json:"executed_task_ids"`
}

// Export writes the full store contents to dir as JSONL files plus a
// manifest. The directory is created if needed; existing snapshot files
// are replaced atomically.
func (b *Backend) Export(dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}

	users, err := b.Users().List(0, 0)
	if err != nil {
		return nil, fmt.Errorf("reading users for snapshot: %w", err)
	}
	tasks, err := b.Tasks().List(types.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("reading tasks for snapshot: %w", err)
	}
	comments, err := b.Comments().List(0, 0)
	if err != nil {
		return nil, fmt.Errorf("reading comments for snapshot: %w", err)
	}

	userRecords := make([]json.RawMessage, 0, len(users))
	for _, u := range users {
		data, err := json.Marshal(userRecord{
			ID:              u.ID,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Email:           u.Email,
			PasswordHash:    u.PasswordHash,
			Role:            u.Role,
			AuthoredTaskIDs: u.AuthoredTaskIDs,
			ExecutedTaskIDs: u.ExecutedTaskIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("marshaling user %d: %w", u.ID, err)
		}
		userRecords = append(userRecords, data)
	}
	taskRecords, err := marshalRecords(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	commentRecords, err := marshalRecords(comments)
	if err != nil {
		return nil, fmt.Errorf("marshaling comments: %w", err)
	}

	if err := writeJSONL(filepath.Join(dir, usersJSONLFile), userRecords); err != nil {
		return nil, err
	}
	if err := writeJSONL(filepath.Join(dir, tasksJSONLFile), taskRecords); err != nil {
		return nil, err
	}
	if err := writeJSONL(filepath.Join(dir, commentsJSONLFile), commentRecords); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		SnapshotID: newSnapshotID(),
		CreatedAt:  time.Now().UTC(),
		Users:      len(users),
		Tasks:      len(tasks),
		Comments:   len(comments),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, manifestFile), []json.RawMessage{data}); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Import replaces the store contents with the snapshot in dir. The whole
// restore runs in one transaction, so a malformed snapshot leaves the
// store untouched.
func (b *Backend) Import(dir string) (*Manifest, error) {
	manifestData, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	userRecords, err := readJSONL(filepath.Join(dir, usersJSONLFile))
	if err != nil {
		return nil, err
	}
	taskRecords, err := readJSONL(filepath.Join(dir, tasksJSONLFile))
	if err != nil {
		return nil, err
	}
	commentRecords, err := readJSONL(filepath.Join(dir, commentsJSONLFile))
	if err != nil {
		return nil, err
	}

	err = b.InTx(func(s types.Store) error {
		ts := s.(*txStore)
		q, _ := ts.querier()
		for _, table := range []string{
			"comments", "tasks", "user_authored_tasks", "user_executed_tasks", "users",
		} {
			if _, err := q.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		for _, rec := range userRecords {
			var ur userRecord
			if err := json.Unmarshal(rec, &ur); err != nil {
				return fmt.Errorf("parsing user record: %w", err)
			}
			user := &types.User{
				ID:              ur.ID,
				FirstName:       ur.FirstName,
				LastName:        ur.LastName,
				Email:           ur.Email,
				PasswordHash:    ur.PasswordHash,
				Role:            ur.Role,
				AuthoredTaskIDs: ur.AuthoredTaskIDs,
				ExecutedTaskIDs: ur.ExecutedTaskIDs,
			}
			if _, err := q.Exec(
				"INSERT INTO users (id, first_name, last_name, email, password_hash, role) VALUES (?, ?, ?, ?, ?, ?)",
				user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
			); err != nil {
				return fmt.Errorf("restoring user %d: %w", user.ID, err)
			}
			if err := (&usersTable{src: ts}).persistReferenceSets(q, user); err != nil {
				return fmt.Errorf("restoring reference sets for user %d: %w", user.ID, err)
			}
		}

		for _, rec := range taskRecords {
			var task types.Task
			if err := json.Unmarshal(rec, &task); err != nil {
				return fmt.Errorf("parsing task record: %w", err)
			}
			if _, err := q.Exec(
				"INSERT INTO tasks (id, title, description, status, priority, author_id, executor_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				task.ID, task.Title, task.Description, task.Status, task.Priority,
				task.AuthorID, executorValue(task.ExecutorID),
				task.CreatedAt.UTC().Format(time.RFC3339),
				task.UpdatedAt.UTC().Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("restoring task %d: %w", task.ID, err)
			}
		}

		for _, rec := range commentRecords {
			var c types.Comment
			if err := json.Unmarshal(rec, &c); err != nil {
				return fmt.Errorf("parsing comment record: %w", err)
			}
			if _, err := q.Exec(
				"INSERT INTO comments (id, task_id, author_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
				c.ID, c.TaskID, c.AuthorID, c.Content,
				c.CreatedAt.UTC().Format(time.RFC3339),
				c.UpdatedAt.UTC().Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("restoring comment %d: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &manifest, nil
}

// marshalRecords marshals a slice of entities to raw JSONL records.
func marshalRecords[T any](items []T) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		records = append(records, data)
	}
	return records, nil
}

// newSnapshotID generates a UUID v7 snapshot id, falling back to v4 if v7
// generation fails.
func newSnapshotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
