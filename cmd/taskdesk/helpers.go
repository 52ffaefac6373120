// Shared helpers for taskdesk CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taskdesk-io/taskdesk/internal/service"
	"github.com/taskdesk-io/taskdesk/internal/sqlite"
	"github.com/taskdesk-io/taskdesk/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// actingUser resolves the --as flag to a stored user. The flag accepts a
// numeric id or an email address. Commands that mutate state require it.
func actingUser(backend *sqlite.Backend) (*types.User, error) {
	if flagActor == "" {
		return nil, fmt.Errorf("--as is required (user id or email)")
	}

	users := service.NewUsers(backend)
	if id, err := strconv.ParseInt(flagActor, 10, 64); err == nil {
		return users.Get(id)
	}
	return users.GetByEmail(flagActor)
}

// parseID parses a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// printResult renders v as indented JSON when --json is set, otherwise
// prints the human-readable fallback line.
func printResult(v any, fallback string) {
	if flagJSON {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal JSON:", err)
			os.Exit(exitSysError)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Println(fallback)
}

// failOp prints the error prefixed with the operation name and exits.
// Expected conditions (not found, permission, validation) are user errors;
// everything else is a system error.
func failOp(op string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", op, err)
	if isUserError(err) {
		os.Exit(exitUserError)
	}
	os.Exit(exitSysError)
}

// isUserError reports whether err is an expected, caller-fixable condition.
func isUserError(err error) bool {
	for _, sentinel := range []error{
		types.ErrNotFound,
		types.ErrPermission,
		types.ErrEmailTaken,
		types.ErrInvalidTitle,
		types.ErrInvalidContent,
		types.ErrInvalidEmail,
		types.ErrInvalidStatus,
		types.ErrInvalidPriority,
		types.ErrInvalidRole,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// taskSummary renders a one-line human-readable task description.
func taskSummary(task *types.Task) string {
	executor := "unassigned"
	if task.ExecutorID != nil {
		executor = fmt.Sprintf("user %d", *task.ExecutorID)
	}
	return fmt.Sprintf("#%d [%s/%s] %s (author: user %d, executor: %s)",
		task.ID, task.Status, task.Priority, task.Title, task.AuthorID, executor)
}

// userSummary renders a one-line human-readable user description.
func userSummary(user *types.User) string {
	return fmt.Sprintf("#%d %s %s <%s> role=%s authored=%s executed=%s",
		user.ID, user.FirstName, user.LastName, user.Email, user.Role,
		idList(user.AuthoredTaskIDs), idList(user.ExecutedTaskIDs))
}

// commentSummary renders a one-line human-readable comment description.
func commentSummary(comment *types.Comment) string {
	return fmt.Sprintf("#%d on task %d by user %d: %s",
		comment.ID, comment.TaskID, comment.AuthorID, comment.Content)
}

// idList renders a sorted id set as {a, b, c}.
func idList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
