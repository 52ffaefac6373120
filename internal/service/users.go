// This file implements user registration and the user deletion cascade.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// Users is the user service. Role enforcement for destructive operations
// (only admins may delete users) belongs to the boundary layer; this
// service executes the cascade once the caller is authorized.
type Users struct {
	store types.Store
}

// NewUsers creates a user service on the given store.
func NewUsers(store types.Store) *Users {
	return &Users{store: store}
}

// Register stores a new user. The email must not be registered already;
// an empty role defaults to USER. Reference sets always start empty.
func (u *Users) Register(user *types.User) (*types.User, error) {
	if user.Email == "" {
		return nil, types.ErrInvalidEmail
	}
	if user.Role == "" {
		user.Role = types.RoleUser
	}
	if !types.ValidRole(user.Role) {
		return nil, types.ErrInvalidRole
	}

	err := u.store.InTx(func(s types.Store) error {
		_, err := s.Users().GetByEmail(user.Email)
		if err == nil {
			return fmt.Errorf("email %s: %w", user.Email, types.ErrEmailTaken)
		}
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		user.AuthoredTaskIDs = nil
		user.ExecutedTaskIDs = nil
		_, err = s.Users().Save(user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user and everything hanging off them, in dependency
// order: comments they wrote, their executor assignments, the executed
// sets of other users executing their authored tasks, the comments on
// those tasks, the tasks themselves, and finally the user row. Cleanup
// runs before row deletion so dependent lookups still succeed.
//
// A reference-set entry pointing at a missing row aborts the transaction
// with ErrConsistency: skipping it would leave the index silently stale.
func (u *Users) Delete(userID int64) error {
	if err := requireValidID(userID); err != nil {
		return err
	}
	return u.store.InTx(func(s types.Store) error {
		user, err := s.Users().Get(userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("there is no user with id %d: %w", userID, types.ErrNotFound)
			}
			return err
		}

		if err := s.Comments().DeleteByAuthor(userID); err != nil {
			return err
		}

		// Clear this user's executor assignments. Self-authored tasks are
		// skipped: their rows are deleted below.
		for _, taskID := range user.ExecutedTaskIDs {
			task, err := s.Tasks().Get(taskID)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("executed set of user %d references missing task %d: %w",
						userID, taskID, types.ErrConsistency)
				}
				return err
			}
			if task.AuthorID == userID {
				continue
			}
			task.ExecutorID = nil
			task.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			if _, err := s.Tasks().Save(task); err != nil {
				return err
			}
		}

		// Detach authored tasks from their (distinct) executors.
		for _, taskID := range user.AuthoredTaskIDs {
			task, err := s.Tasks().Get(taskID)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("authored set of user %d references missing task %d: %w",
						userID, taskID, types.ErrConsistency)
				}
				return err
			}
			if task.ExecutorID != nil && *task.ExecutorID != userID {
				if err := DetachExecutor(s, *task.ExecutorID, taskID); err != nil {
					return err
				}
			}
		}

		// Purge comments on authored tasks, then the task rows.
		for _, taskID := range user.AuthoredTaskIDs {
			if err := s.Comments().DeleteByTask(taskID); err != nil {
				return err
			}
		}
		for _, taskID := range user.AuthoredTaskIDs {
			if err := s.Tasks().Delete(taskID); err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("authored set of user %d references missing task %d: %w",
						userID, taskID, types.ErrConsistency)
				}
				return err
			}
		}

		return s.Users().Delete(userID)
	})
}

// Get retrieves a user by id.
func (u *Users) Get(userID int64) (*types.User, error) {
	if err := requireValidID(userID); err != nil {
		return nil, err
	}
	user, err := u.store.Users().Get(userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("there is no user with id %d: %w", userID, types.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (u *Users) GetByEmail(email string) (*types.User, error) {
	user, err := u.store.Users().GetByEmail(email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("there is no user with email %s: %w", email, types.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// List returns users ordered by id.
func (u *Users) List(limit, offset int) ([]*types.User, error) {
	return u.store.Users().List(limit, offset)
}
