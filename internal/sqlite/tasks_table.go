// This file implements the tasks table accessor.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var _ types.TaskTable = (*tasksTable)(nil)

type tasksTable struct {
	src querierSource
}

const taskColumns = "id, title, description, status, priority, author_id, executor_id, created_at, updated_at"

// Get retrieves a task by id.
func (t *tasksTable) Get(id int64) (*types.Task, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	row := q.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := hydrateTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return task, nil
}

// Exists reports whether a task row with the given id exists.
func (t *tasksTable) Exists(id int64) (bool, error) {
	q, err := t.src.querier()
	if err != nil {
		return false, err
	}

	var one int
	err = q.QueryRow("SELECT 1 FROM tasks WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking task existence: %w", err)
	}
	return true, nil
}

// Save inserts the task when ID is zero, otherwise replaces the stored row.
func (t *tasksTable) Save(task *types.Task) (int64, error) {
	q, err := t.src.querier()
	if err != nil {
		return 0, err
	}

	createdAt := task.CreatedAt.UTC().Format(time.RFC3339)
	updatedAt := task.UpdatedAt.UTC().Format(time.RFC3339)
	executor := executorValue(task.ExecutorID)

	if task.ID == 0 {
		res, err := q.Exec(
			"INSERT INTO tasks (title, description, status, priority, author_id, executor_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			task.Title, task.Description, task.Status, task.Priority,
			task.AuthorID, executor, createdAt, updatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting task: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading task id: %w", err)
		}
		task.ID = id
		return id, nil
	}

	_, err = q.Exec(
		"UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, author_id = ?, executor_id = ?, created_at = ?, updated_at = ? WHERE id = ?",
		task.Title, task.Description, task.Status, task.Priority,
		task.AuthorID, executor, createdAt, updatedAt, task.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating task %d: %w", task.ID, err)
	}
	return task.ID, nil
}

// Delete removes the task row only. Comments and reference-set cleanup are
// the service layer's responsibility.
func (t *tasksTable) Delete(id int64) error {
	q, err := t.src.querier()
	if err != nil {
		return err
	}

	res, err := q.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List queries tasks matching the filter, newest first.
func (t *tasksTable) List(filter types.TaskFilter) ([]*types.Task, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	var conditions []string
	var args []any

	if filter.AuthorID != nil {
		conditions = append(conditions, "author_id = ?")
		args = append(args, *filter.AuthorID)
	}
	if filter.ExecutorID != nil {
		conditions = append(conditions, "executor_id = ?")
		args = append(args, *filter.ExecutorID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*types.Task{}
	for rows.Next() {
		task, err := hydrateTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// hydrateTask converts one row into a *types.Task using the given Scan.
func hydrateTask(scan func(dest ...any) error) (*types.Task, error) {
	var task types.Task
	var executor sql.NullInt64
	var createdAt, updatedAt string
	if err := scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.AuthorID, &executor, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if executor.Valid {
		task.ExecutorID = types.ExecutorRef(executor.Int64)
	}
	var err error
	task.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &task, nil
}

// executorValue maps an optional executor id to its column value.
func executorValue(executorID *int64) any {
	if executorID == nil {
		return nil
	}
	return *executorID
}
