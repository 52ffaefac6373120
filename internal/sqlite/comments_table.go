// This file implements the comments table accessor.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var _ types.CommentTable = (*commentsTable)(nil)

type commentsTable struct {
	src querierSource
}

const commentColumns = "id, task_id, author_id, content, created_at, updated_at"

// Get retrieves a comment by id.
func (t *commentsTable) Get(id int64) (*types.Comment, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	row := q.QueryRow("SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	comment, err := hydrateComment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting comment %d: %w", id, err)
	}
	return comment, nil
}

// Save inserts the comment when ID is zero, otherwise replaces the stored
// row.
func (t *commentsTable) Save(comment *types.Comment) (int64, error) {
	q, err := t.src.querier()
	if err != nil {
		return 0, err
	}

	createdAt := comment.CreatedAt.UTC().Format(time.RFC3339)
	updatedAt := comment.UpdatedAt.UTC().Format(time.RFC3339)

	if comment.ID == 0 {
		res, err := q.Exec(
			"INSERT INTO comments (task_id, author_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			comment.TaskID, comment.AuthorID, comment.Content, createdAt, updatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting comment: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading comment id: %w", err)
		}
		comment.ID = id
		return id, nil
	}

	_, err = q.Exec(
		"UPDATE comments SET task_id = ?, author_id = ?, content = ?, created_at = ?, updated_at = ? WHERE id = ?",
		comment.TaskID, comment.AuthorID, comment.Content, createdAt, updatedAt, comment.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating comment %d: %w", comment.ID, err)
	}
	return comment.ID, nil
}

// Delete removes the comment with the given id.
func (t *commentsTable) Delete(id int64) error {
	q, err := t.src.querier()
	if err != nil {
		return err
	}

	res, err := q.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// ListByTask returns the comments on a task, oldest first.
func (t *commentsTable) ListByTask(taskID int64, limit, offset int) ([]*types.Comment, error) {
	return t.list("WHERE task_id = ?", []any{taskID}, limit, offset)
}

// ListByAuthor returns the comments written by a user, oldest first.
func (t *commentsTable) ListByAuthor(authorID int64, limit, offset int) ([]*types.Comment, error) {
	return t.list("WHERE author_id = ?", []any{authorID}, limit, offset)
}

// List returns all comments, oldest first.
func (t *commentsTable) List(limit, offset int) ([]*types.Comment, error) {
	return t.list("", nil, limit, offset)
}

// DeleteByTask removes every comment attached to the task.
func (t *commentsTable) DeleteByTask(taskID int64) error {
	q, err := t.src.querier()
	if err != nil {
		return err
	}
	if _, err := q.Exec("DELETE FROM comments WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("deleting comments for task %d: %w", taskID, err)
	}
	return nil
}

// DeleteByAuthor removes every comment written by the user.
func (t *commentsTable) DeleteByAuthor(authorID int64) error {
	q, err := t.src.querier()
	if err != nil {
		return err
	}
	if _, err := q.Exec("DELETE FROM comments WHERE author_id = ?", authorID); err != nil {
		return fmt.Errorf("deleting comments by author %d: %w", authorID, err)
	}
	return nil
}

func (t *commentsTable) list(where string, args []any, limit, offset int) ([]*types.Comment, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + commentColumns + " FROM comments"
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY created_at ASC, id ASC"
	query += limitOffsetClause(limit, offset)

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	comments := []*types.Comment{}
	for rows.Next() {
		comment, err := hydrateComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}

// hydrateComment converts one row into a *types.Comment using the given
// Scan.
func hydrateComment(scan func(dest ...any) error) (*types.Comment, error) {
	var c types.Comment
	var createdAt, updatedAt string
	if err := scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
