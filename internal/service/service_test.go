// Shared fixtures for the service tests. All tests run against a real
// SQLite backend in a temp directory.
package service

import (
	"fmt"
	"testing"

	"github.com/taskdesk-io/taskdesk/internal/sqlite"
	"github.com/taskdesk-io/taskdesk/pkg/types"
)

type fixture struct {
	backend  *sqlite.Backend
	users    *Users
	tasks    *Tasks
	comments *Comments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return &fixture{
		backend:  b,
		users:    NewUsers(b),
		tasks:    NewTasks(b),
		comments: NewComments(b),
	}
}

var emailSeq int

// registerUser registers a user with a unique email and the given role.
func (f *fixture) registerUser(t *testing.T, name, role string) *types.User {
	t.Helper()
	emailSeq++
	user, err := f.users.Register(&types.User{
		FirstName: name,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s%d@example.com", name, emailSeq),
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

// createTask creates a task authored by author, optionally assigned to
// executor.
func (f *fixture) createTask(t *testing.T, title string, author *types.User, executor *types.User) *types.Task {
	t.Helper()
	task := &types.Task{
		Title:    title,
		Status:   types.StatusOnHold,
		Priority: types.PriorityRegular,
		AuthorID: author.ID,
	}
	if executor != nil {
		task.ExecutorID = types.ExecutorRef(executor.ID)
	}
	created, err := f.tasks.Create(task, author.ID)
	if err != nil {
		t.Fatalf("Create task failed: %v", err)
	}
	return created
}

// reloadUser fetches the current state of a user.
func (f *fixture) reloadUser(t *testing.T, id int64) *types.User {
	t.Helper()
	user, err := f.users.Get(id)
	if err != nil {
		t.Fatalf("Get user %d failed: %v", id, err)
	}
	return user
}
