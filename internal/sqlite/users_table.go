// This file implements the users table accessor, including the two
// reference-set child tables (user_authored_tasks, user_executed_tasks)
// that are persisted wholesale with every user save.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var _ types.UserTable = (*usersTable)(nil)

type usersTable struct {
	src querierSource
}

// Get retrieves a user by id, hydrating both reference sets.
func (t *usersTable) Get(id int64) (*types.User, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(
		"SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE id = ?",
		id,
	)
	user, err := hydrateUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	if err := t.hydrateReferenceSets(q, user); err != nil {
		return nil, fmt.Errorf("hydrating reference sets for user %d: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, hydrating both reference sets.
func (t *usersTable) GetByEmail(email string) (*types.User, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(
		"SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE email = ?",
		email,
	)
	user, err := hydrateUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email %s: %w", email, err)
	}
	if err := t.hydrateReferenceSets(q, user); err != nil {
		return nil, fmt.Errorf("hydrating reference sets for user %d: %w", user.ID, err)
	}
	return user, nil
}

// Exists reports whether a user row with the given id exists.
func (t *usersTable) Exists(id int64) (bool, error) {
	q, err := t.src.querier()
	if err != nil {
		return false, err
	}

	var one int
	err = q.QueryRow("SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return true, nil
}

// Save inserts the user when ID is zero, otherwise replaces the stored
// record. The reference-set rows are replaced wholesale so the persisted
// sets always match the in-memory user.
func (t *usersTable) Save(user *types.User) (int64, error) {
	q, err := t.src.querier()
	if err != nil {
		return 0, err
	}

	if user.ID == 0 {
		res, err := q.Exec(
			"INSERT INTO users (first_name, last_name, email, password_hash, role) VALUES (?, ?, ?, ?, ?)",
			user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading user id: %w", err)
		}
		user.ID = id
	} else {
		_, err := q.Exec(
			"UPDATE users SET first_name = ?, last_name = ?, email = ?, password_hash = ?, role = ? WHERE id = ?",
			user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("updating user %d: %w", user.ID, err)
		}
	}

	if err := t.persistReferenceSets(q, user); err != nil {
		return 0, fmt.Errorf("persisting reference sets for user %d: %w", user.ID, err)
	}

	return user.ID, nil
}

// Delete removes the user row and its reference-set rows. Dependent task
// and comment cleanup is the service layer's responsibility.
func (t *usersTable) Delete(id int64) error {
	q, err := t.src.querier()
	if err != nil {
		return err
	}

	res, err := q.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if _, err := q.Exec("DELETE FROM user_authored_tasks WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("deleting authored set for user %d: %w", id, err)
	}
	if _, err := q.Exec("DELETE FROM user_executed_tasks WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("deleting executed set for user %d: %w", id, err)
	}
	return nil
}

// List returns users ordered by id, honoring limit and offset (zero means
// unbounded).
func (t *usersTable) List(limit, offset int) ([]*types.User, error) {
	q, err := t.src.querier()
	if err != nil {
		return nil, err
	}

	query := "SELECT id, first_name, last_name, email, password_hash, role FROM users ORDER BY id ASC"
	query += limitOffsetClause(limit, offset)

	rows, err := q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []*types.User{}
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	for _, u := range users {
		if err := t.hydrateReferenceSets(q, u); err != nil {
			return nil, fmt.Errorf("hydrating reference sets for user %d: %w", u.ID, err)
		}
	}
	return users, nil
}

// hydrateReferenceSets loads both reference-set tables into the user.
func (t *usersTable) hydrateReferenceSets(q querier, user *types.User) error {
	authored, err := loadReferenceSet(q, "user_authored_tasks", user.ID)
	if err != nil {
		return err
	}
	executed, err := loadReferenceSet(q, "user_executed_tasks", user.ID)
	if err != nil {
		return err
	}
	user.AuthoredTaskIDs = authored
	user.ExecutedTaskIDs = executed
	return nil
}

// persistReferenceSets replaces both reference-set tables for the user.
func (t *usersTable) persistReferenceSets(q querier, user *types.User) error {
	if err := storeReferenceSet(q, "user_authored_tasks", user.ID, user.AuthoredTaskIDs); err != nil {
		return err
	}
	return storeReferenceSet(q, "user_executed_tasks", user.ID, user.ExecutedTaskIDs)
}

// loadReferenceSet reads one reference-set table for a user, sorted.
func loadReferenceSet(q querier, table string, userID int64) ([]int64, error) {
	rows, err := q.Query(
		"SELECT task_id FROM "+table+" WHERE user_id = ? ORDER BY task_id ASC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return ids, nil
}

// storeReferenceSet replaces one reference-set table for a user.
func storeReferenceSet(q querier, table string, userID int64, ids []int64) error {
	if _, err := q.Exec("DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := q.Exec(
			"INSERT INTO "+table+" (user_id, task_id) VALUES (?, ?)", userID, id,
		); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

// hydrateUser converts a single SQLite row into a *types.User without
// reference sets.
func hydrateUser(row *sql.Row) (*types.User, error) {
	var u types.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role); err != nil {
		return nil, err
	}
	return &u, nil
}

// limitOffsetClause renders LIMIT/OFFSET for positive values. SQLite
// requires a LIMIT before OFFSET, hence LIMIT -1 when only offset is set.
func limitOffsetClause(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	default:
		return ""
	}
}
