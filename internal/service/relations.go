// This file maintains the derived reference sets on User records. Every
// code path that changes Task.AuthorID or Task.ExecutorID goes through
// these functions, inside the same transaction as the task write itself.
package service

import (
	"errors"
	"fmt"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// AttachAuthor records taskID in the user's authored set.
// Idempotent: attaching an id already present changes nothing.
func AttachAuthor(s types.Store, userID, taskID int64) error {
	return mutateReferenceSets(s, userID, func(u *types.User) {
		u.AddAuthoredTask(taskID)
	})
}

// DetachAuthor removes taskID from the user's authored set.
// Idempotent: detaching an absent id changes nothing.
func DetachAuthor(s types.Store, userID, taskID int64) error {
	return mutateReferenceSets(s, userID, func(u *types.User) {
		u.RemoveAuthoredTask(taskID)
	})
}

// AttachExecutor records taskID in the user's executed set.
// Idempotent: attaching an id already present changes nothing.
func AttachExecutor(s types.Store, userID, taskID int64) error {
	return mutateReferenceSets(s, userID, func(u *types.User) {
		u.AddExecutedTask(taskID)
	})
}

// DetachExecutor removes taskID from the user's executed set.
// Idempotent: detaching an absent id changes nothing.
func DetachExecutor(s types.Store, userID, taskID int64) error {
	return mutateReferenceSets(s, userID, func(u *types.User) {
		u.RemoveExecutedTask(taskID)
	})
}

// mutateReferenceSets loads the user, applies the set mutation, and saves.
// The caller has already established that the user exists, so a missing
// row here means the reference index and the user table disagree.
//
// Sequential calls for the same user within one transaction are safe: the
// second call re-loads the row the first one saved, so an author who is
// also the executor keeps both set changes.
func mutateReferenceSets(s types.Store, userID int64, mutate func(*types.User)) error {
	user, err := s.Users().Get(userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("reference update for missing user %d: %w", userID, types.ErrConsistency)
		}
		return err
	}
	mutate(user)
	if _, err := s.Users().Save(user); err != nil {
		return fmt.Errorf("saving reference sets for user %d: %w", userID, err)
	}
	return nil
}
