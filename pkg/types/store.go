package types

import "errors"

// Store is the entity store consumed by the service layer: point lookup,
// insert/replace, delete, and existence checks for the three entity types,
// plus an atomic transaction boundary.
//
// InTx runs fn against a transaction-scoped Store. Every table operation
// performed through that Store commits or rolls back as a unit; fn
// returning an error rolls the transaction back and the error is returned
// unchanged.
type Store interface {
	Users() UserTable
	Tasks() TaskTable
	Comments() CommentTable
	InTx(fn func(Store) error) error
}

// UserTable provides CRUD access to user records. Save persists the full
// record including both reference sets; an id of zero inserts and assigns
// a new id, a non-zero id replaces the stored record.
type UserTable interface {
	// Get retrieves the user with the given id.
	// Returns ErrNotFound if no user exists with that id.
	Get(id int64) (*User, error)

	// GetByEmail retrieves the user with the given email.
	// Returns ErrNotFound if no user has that email.
	GetByEmail(email string) (*User, error)

	// Exists reports whether a user with the given id exists.
	Exists(id int64) (bool, error)

	// Save inserts or replaces the user and returns the id used.
	Save(user *User) (int64, error)

	// Delete removes the user row only; dependent cleanup is the
	// service layer's responsibility.
	// Returns ErrNotFound if no user exists with that id.
	Delete(id int64) error

	// List returns all users ordered by id, honoring limit/offset.
	List(limit, offset int) ([]*User, error)
}

// TaskFilter selects tasks in TaskTable.List. Nil pointer fields do not
// constrain the query. Limit and Offset of zero mean unbounded.
type TaskFilter struct {
	AuthorID   *int64
	ExecutorID *int64
	Status     *string
	Priority   *string
	Limit      int
	Offset     int
}

// TaskTable provides CRUD access to task records.
type TaskTable interface {
	// Get retrieves the task with the given id.
	// Returns ErrNotFound if no task exists with that id.
	Get(id int64) (*Task, error)

	// Exists reports whether a task with the given id exists.
	Exists(id int64) (bool, error)

	// Save inserts or replaces the task and returns the id used.
	Save(task *Task) (int64, error)

	// Delete removes the task row only.
	// Returns ErrNotFound if no task exists with that id.
	Delete(id int64) error

	// List returns tasks matching the filter, newest first.
	List(filter TaskFilter) ([]*Task, error)
}

// CommentTable provides CRUD access to comment records.
type CommentTable interface {
	// Get retrieves the comment with the given id.
	// Returns ErrNotFound if no comment exists with that id.
	Get(id int64) (*Comment, error)

	// Save inserts or replaces the comment and returns the id used.
	Save(comment *Comment) (int64, error)

	// Delete removes the comment with the given id.
	// Returns ErrNotFound if no comment exists with that id.
	Delete(id int64) error

	// ListByTask returns the comments on a task, oldest first.
	ListByTask(taskID int64, limit, offset int) ([]*Comment, error)

	// ListByAuthor returns the comments written by a user, oldest first.
	ListByAuthor(authorID int64, limit, offset int) ([]*Comment, error)

	// List returns all comments, oldest first.
	List(limit, offset int) ([]*Comment, error)

	// DeleteByTask removes every comment attached to the task.
	// Deleting zero comments is not an error.
	DeleteByTask(taskID int64) error

	// DeleteByAuthor removes every comment written by the user.
	// Deleting zero comments is not an error.
	DeleteByAuthor(authorID int64) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors. NotFound and Permission are expected, caller-recoverable
// conditions; Consistency indicates a reference index pointed at a row that
// no longer exists and aborts the enclosing transaction.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrPermission  = errors.New("permission denied")
	ErrConsistency = errors.New("reference index out of sync")
	ErrEmailTaken  = errors.New("email already registered")
)

// Entity validation errors.
var (
	ErrInvalidID       = errors.New("invalid entity id")
	ErrInvalidTitle    = errors.New("title must not be empty")
	ErrInvalidContent  = errors.New("content must not be empty")
	ErrInvalidEmail    = errors.New("email must not be empty")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidRole     = errors.New("invalid role value")
)
