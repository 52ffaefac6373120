package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

func newStoredTask(t *testing.T, b *Backend, task *types.Task) *types.Task {
	t.Helper()
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if _, err := b.Tasks().Save(task); err != nil {
		t.Fatal(err)
	}
	return task
}

func TestTasksTable_SaveAndGet(t *testing.T) {
	b := testBackend(t)

	task := newStoredTask(t, b, &types.Task{
		Title:       "ship release",
		Description: "cut the release branch",
		Status:      types.StatusOnHold,
		Priority:    types.PriorityHigh,
		AuthorID:    10,
		ExecutorID:  types.ExecutorRef(20),
	})

	got, err := b.Tasks().Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "ship release" || got.Status != types.StatusOnHold {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.ExecutorID == nil || *got.ExecutorID != 20 {
		t.Errorf("executor not persisted: %v", got.ExecutorID)
	}
}

func TestTasksTable_NullExecutor(t *testing.T) {
	b := testBackend(t)

	task := newStoredTask(t, b, &types.Task{
		Title: "solo work", Status: types.StatusOnHold,
		Priority: types.PriorityLow, AuthorID: 10,
	})

	got, err := b.Tasks().Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExecutorID != nil {
		t.Errorf("expected nil executor, got %v", *got.ExecutorID)
	}

	// Assign, then clear.
	got.ExecutorID = types.ExecutorRef(33)
	if _, err := b.Tasks().Save(got); err != nil {
		t.Fatal(err)
	}
	got.ExecutorID = nil
	if _, err := b.Tasks().Save(got); err != nil {
		t.Fatal(err)
	}
	got2, err := b.Tasks().Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got2.ExecutorID != nil {
		t.Errorf("expected cleared executor, got %v", *got2.ExecutorID)
	}
}

func TestTasksTable_GetMissing(t *testing.T) {
	b := testBackend(t)
	if _, err := b.Tasks().Get(404); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasksTable_Delete(t *testing.T) {
	b := testBackend(t)
	task := newStoredTask(t, b, &types.Task{
		Title: "t", Status: types.StatusOnHold, Priority: types.PriorityRegular, AuthorID: 1,
	})

	if err := b.Tasks().Delete(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Tasks().Delete(task.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasksTable_List(t *testing.T) {
	b := testBackend(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newStoredTask(t, b, &types.Task{
		Title: "a", Status: types.StatusOnHold, Priority: types.PriorityHigh,
		AuthorID: 1, CreatedAt: base, UpdatedAt: base,
	})
	newStoredTask(t, b, &types.Task{
		Title: "b", Status: types.StatusInProgress, Priority: types.PriorityLow,
		AuthorID: 1, ExecutorID: types.ExecutorRef(2),
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	})
	newStoredTask(t, b, &types.Task{
		Title: "c", Status: types.StatusInProgress, Priority: types.PriorityHigh,
		AuthorID: 3, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour),
	})

	t.Run("no filter returns newest first", func(t *testing.T) {
		tasks, err := b.Tasks().List(types.TaskFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 3 || tasks[0].Title != "c" {
			t.Fatalf("unexpected order: %v", titles(tasks))
		}
	})

	t.Run("filter by author and status", func(t *testing.T) {
		author := int64(1)
		status := types.StatusInProgress
		tasks, err := b.Tasks().List(types.TaskFilter{AuthorID: &author, Status: &status})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 1 || tasks[0].Title != "b" {
			t.Fatalf("unexpected result: %v", titles(tasks))
		}
	})

	t.Run("filter by executor", func(t *testing.T) {
		executor := int64(2)
		tasks, err := b.Tasks().List(types.TaskFilter{ExecutorID: &executor})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 1 || tasks[0].Title != "b" {
			t.Fatalf("unexpected result: %v", titles(tasks))
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		tasks, err := b.Tasks().List(types.TaskFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 1 || tasks[0].Title != "b" {
			t.Fatalf("unexpected page: %v", titles(tasks))
		}
	})
}

func titles(tasks []*types.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}
