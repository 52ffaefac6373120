// This file implements comment creation and the comment ownership guard.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// Comments is the comment service. Only a comment's author may update or
// delete it.
type Comments struct {
	store types.Store
}

// NewComments creates a comment service on the given store.
func NewComments(store types.Store) *Comments {
	return &Comments{store: store}
}

// Create stores a new comment. The referenced task must exist and the
// declared author must be the acting user.
func (c *Comments) Create(comment *types.Comment, actingUserID int64) (*types.Comment, error) {
	if comment.Content == "" {
		return nil, types.ErrInvalidContent
	}
	if comment.AuthorID != actingUserID {
		return nil, fmt.Errorf("comment author must be the acting user %d: %w", actingUserID, types.ErrPermission)
	}

	err := c.store.InTx(func(s types.Store) error {
		ok, err := s.Tasks().Exists(comment.TaskID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("there is no task with id %d: %w", comment.TaskID, types.ErrNotFound)
		}

		now := time.Now().UTC().Truncate(time.Second)
		comment.CreatedAt = now
		comment.UpdatedAt = now
		_, err = s.Comments().Save(comment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces a comment's content. Only the comment's author may
// update it.
func (c *Comments) Update(commentID int64, content string, actingUserID int64) (*types.Comment, error) {
	if err := requireValidID(commentID); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, types.ErrInvalidContent
	}

	var updated *types.Comment
	err := c.store.InTx(func(s types.Store) error {
		stored, err := s.Comments().Get(commentID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("there is no comment with id %d: %w", commentID, types.ErrNotFound)
			}
			return err
		}
		if stored.AuthorID != actingUserID {
			return fmt.Errorf("no permission to update comment %d: %w", commentID, types.ErrPermission)
		}

		stored.Content = content
		stored.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		if _, err := s.Comments().Save(stored); err != nil {
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

// Delete removes a comment. Only the comment's author may delete it.
func (c *Comments) Delete(commentID, actingUserID int64) error {
	if err := requireValidID(commentID); err != nil {
		return err
	}
	return c.store.InTx(func(s types.Store) error {
		stored, err := s.Comments().Get(commentID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("there is no comment with id %d: %w", commentID, types.ErrNotFound)
			}
			return err
		}
		if stored.AuthorID != actingUserID {
			return fmt.Errorf("no permission to delete comment %d: %w", commentID, types.ErrPermission)
		}
		return s.Comments().Delete(commentID)
	})
}

// Get retrieves a comment by id.
func (c *Comments) Get(commentID int64) (*types.Comment, error) {
	if err := requireValidID(commentID); err != nil {
		return nil, err
	}
	comment, err := c.store.Comments().Get(commentID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("there is no comment with id %d: %w", commentID, types.ErrNotFound)
		}
		return nil, err
	}
	return comment, nil
}

// ListByTask returns the comments on a task, oldest first.
func (c *Comments) ListByTask(taskID int64, limit, offset int) ([]*types.Comment, error) {
	return c.store.Comments().ListByTask(taskID, limit, offset)
}

// ListByAuthor returns the comments written by a user, oldest first.
func (c *Comments) ListByAuthor(authorID int64, limit, offset int) ([]*types.Comment, error) {
	return c.store.Comments().ListByAuthor(authorID, limit, offset)
}

// List returns all comments, oldest first.
func (c *Comments) List(limit, offset int) ([]*types.Comment, error) {
	return c.store.Comments().List(limit, offset)
}
