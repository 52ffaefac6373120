// This file implements task creation, the field-diff authorized update,
// and the task deletion cascade.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// Tasks is the task service. All mutations run in a single store
// transaction covering the task row and the affected reference sets.
type Tasks struct {
	store types.Store
}

// NewTasks creates a task service on the given store.
func NewTasks(store types.Store) *Tasks {
	return &Tasks{store: store}
}

// Create stores a new task. The acting user must be the declared author;
// the author and, when set, the executor must exist. On success the task
// id is attached to the author's authored set and, if an executor is
// assigned, to that user's executed set.
func (t *Tasks) Create(task *types.Task, actingUserID int64) (*types.Task, error) {
	if task.Title == "" {
		return nil, types.ErrInvalidTitle
	}
	if !types.ValidStatus(task.Status) {
		return nil, types.ErrInvalidStatus
	}
	if !types.ValidPriority(task.Priority) {
		return nil, types.ErrInvalidPriority
	}
	if task.AuthorID != actingUserID {
		return nil, fmt.Errorf("task author must be the acting user %d: %w", actingUserID, types.ErrPermission)
	}

	err := t.store.InTx(func(s types.Store) error {
		if err := requireUser(s, task.AuthorID); err != nil {
			return err
		}
		if task.ExecutorID != nil {
			if err := requireUser(s, *task.ExecutorID); err != nil {
				return err
			}
		}

		now := time.Now().UTC().Truncate(time.Second)
		task.CreatedAt = now
		task.UpdatedAt = now

		id, err := s.Tasks().Save(task)
		if err != nil {
			return err
		}

		if err := AttachAuthor(s, task.AuthorID, id); err != nil {
			return err
		}
		if task.ExecutorID != nil {
			if err := AttachExecutor(s, *task.ExecutorID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies an incoming task to the stored row under the field-diff
// rule: the author may change any mutable field, the executor may change
// status and nothing else, and anyone else is rejected. A change of
// executor moves the task id between the affected executed sets within
// the same transaction.
func (t *Tasks) Update(incoming *types.Task, actingUserID int64) (*types.Task, error) {
	if err := requireValidID(incoming.ID); err != nil {
		return nil, err
	}

	var updated *types.Task

	err := t.store.InTx(func(s types.Store) error {
		stored, err := s.Tasks().Get(incoming.ID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("there is no task with id %d: %w", incoming.ID, types.ErrNotFound)
			}
			return err
		}

		changed := stored.ChangedFields(incoming)
		isAuthor := actingUserID == stored.AuthorID
		isExecutor := stored.ExecutorID != nil && actingUserID == *stored.ExecutorID

		if !isAuthor {
			if !isExecutor {
				return fmt.Errorf("no permission to update task %d: %w", incoming.ID, types.ErrPermission)
			}
			// Executor: the diff must be exactly {status}.
			if len(changed) != 1 || !changed[types.FieldStatus] {
				return fmt.Errorf("executor may only change status of task %d, attempted %s: %w",
					incoming.ID, fieldList(changed), types.ErrPermission)
			}
			if err := stored.SetStatus(incoming.Status); err != nil {
				return err
			}
			stored.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			if _, err := s.Tasks().Save(stored); err != nil {
				return err
			}
			updated = stored
			return nil
		}

		if changed[types.FieldTitle] {
			if incoming.Title == "" {
				return types.ErrInvalidTitle
			}
			stored.Title = incoming.Title
		}
		if changed[types.FieldDescription] {
			stored.Description = incoming.Description
		}
		if changed[types.FieldStatus] {
			if err := stored.SetStatus(incoming.Status); err != nil {
				return err
			}
		}
		if changed[types.FieldPriority] {
			if err := stored.SetPriority(incoming.Priority); err != nil {
				return err
			}
		}
		if changed[types.FieldExecutor] {
			if err := t.reassignExecutor(s, stored, incoming.ExecutorID); err != nil {
				return err
			}
		}

		stored.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		if _, err := s.Tasks().Save(stored); err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// reassignExecutor moves the task between executed sets: the previous
// executor (if any, and different) is detached, the new executor (if any)
// is attached, and the task row is updated. Only reachable on the author
// path, since an executor-only update can never touch executorId.
func (t *Tasks) reassignExecutor(s types.Store, stored *types.Task, newExecutor *int64) error {
	if newExecutor != nil {
		if err := requireUser(s, *newExecutor); err != nil {
			return err
		}
	}
	if stored.ExecutorID != nil {
		if newExecutor == nil || *stored.ExecutorID != *newExecutor {
			if err := DetachExecutor(s, *stored.ExecutorID, stored.ID); err != nil {
				return err
			}
		}
	}
	if newExecutor != nil {
		if err := AttachExecutor(s, *newExecutor, stored.ID); err != nil {
			return err
		}
		stored.ExecutorID = types.ExecutorRef(*newExecutor)
	} else {
		stored.ExecutorID = nil
	}
	return nil
}

// Delete removes a task. Only the author may delete; the cascade removes
// the task row, purges its comments, and detaches the id from the
// author's authored set and the executor's executed set. When author and
// executor are the same user, both set detachments still apply.
func (t *Tasks) Delete(taskID, actingUserID int64) error {
	if err := requireValidID(taskID); err != nil {
		return err
	}
	return t.store.InTx(func(s types.Store) error {
		stored, err := s.Tasks().Get(taskID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("there is no task with id %d: %w", taskID, types.ErrNotFound)
			}
			return err
		}

		if actingUserID != stored.AuthorID {
			return fmt.Errorf("no permission to delete task %d: %w", taskID, types.ErrPermission)
		}

		if err := s.Tasks().Delete(taskID); err != nil {
			return err
		}
		if err := s.Comments().DeleteByTask(taskID); err != nil {
			return err
		}
		if err := DetachAuthor(s, stored.AuthorID, taskID); err != nil {
			return err
		}
		if stored.ExecutorID != nil {
			if err := DetachExecutor(s, *stored.ExecutorID, taskID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a task by id.
func (t *Tasks) Get(taskID int64) (*types.Task, error) {
	if err := requireValidID(taskID); err != nil {
		return nil, err
	}
	task, err := t.store.Tasks().Get(taskID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("there is no task with id %d: %w", taskID, types.ErrNotFound)
		}
		return nil, err
	}
	return task, nil
}

// List returns tasks matching the filter, newest first.
func (t *Tasks) List(filter types.TaskFilter) ([]*types.Task, error) {
	return t.store.Tasks().List(filter)
}

// ListByAuthor returns the tasks authored by the given user, newest
// first. The author must exist.
func (t *Tasks) ListByAuthor(authorID int64, limit, offset int) ([]*types.Task, error) {
	if err := requireUser(t.store, authorID); err != nil {
		return nil, err
	}
	return t.store.Tasks().List(types.TaskFilter{AuthorID: &authorID, Limit: limit, Offset: offset})
}

// requireValidID rejects non-positive entity ids before any lookup.
func requireValidID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("id %d: %w", id, types.ErrInvalidID)
	}
	return nil
}

// requireUser fails with a NotFound error naming the id unless the user
// exists.
func requireUser(s types.Store, userID int64) error {
	ok, err := s.Users().Exists(userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("there is no user with id %d: %w", userID, types.ErrNotFound)
	}
	return nil
}

// fieldList renders a changed-field set as a stable, sorted list for
// error messages.
func fieldList(changed map[string]bool) string {
	fields := make([]string, 0, len(changed))
	for f := range changed {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "[" + strings.Join(fields, ", ") + "]"
}
