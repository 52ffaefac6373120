package types

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// validRoles is the set of recognized role values.
var validRoles = map[string]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

// ValidRole reports whether role is a recognized role value.
func ValidRole(role string) bool {
	return validRoles[role]
}

// User represents an account that can author tasks, execute tasks, and
// write comments.
//
// AuthoredTaskIDs and ExecutedTaskIDs are derived reverse indexes over the
// tasks table: for every task T, T.AuthorID's user carries T.ID in
// AuthoredTaskIDs, and if T.ExecutorID is set, that user carries T.ID in
// ExecutedTaskIDs. The sets are maintained only by the service layer and
// are kept sorted with no duplicates.
type User struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"-"`
	Role            string  `json:"role"`
	AuthoredTaskIDs []int64 `json:"authored_task_ids"`
	ExecutedTaskIDs []int64 `json:"executed_task_ids"`
}

// AddAuthoredTask adds taskID to the authored set.
// Idempotent: adding an id already present is a no-op.
func (u *User) AddAuthoredTask(taskID int64) {
	u.AuthoredTaskIDs = insertID(u.AuthoredTaskIDs, taskID)
}

// RemoveAuthoredTask removes taskID from the authored set.
// Idempotent: removing an absent id is a no-op.
func (u *User) RemoveAuthoredTask(taskID int64) {
	u.AuthoredTaskIDs = removeID(u.AuthoredTaskIDs, taskID)
}

// AddExecutedTask adds taskID to the executed set.
// Idempotent: adding an id already present is a no-op.
func (u *User) AddExecutedTask(taskID int64) {
	u.ExecutedTaskIDs = insertID(u.ExecutedTaskIDs, taskID)
}

// RemoveExecutedTask removes taskID from the executed set.
// Idempotent: removing an absent id is a no-op.
func (u *User) RemoveExecutedTask(taskID int64) {
	u.ExecutedTaskIDs = removeID(u.ExecutedTaskIDs, taskID)
}

// HasAuthoredTask reports whether taskID is in the authored set.
func (u *User) HasAuthoredTask(taskID int64) bool {
	return containsID(u.AuthoredTaskIDs, taskID)
}

// HasExecutedTask reports whether taskID is in the executed set.
func (u *User) HasExecutedTask(taskID int64) bool {
	return containsID(u.ExecutedTaskIDs, taskID)
}

// insertID inserts id into the sorted set, keeping order and uniqueness.
func insertID(set []int64, id int64) []int64 {
	i := searchID(set, id)
	if i < len(set) && set[i] == id {
		return set
	}
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = id
	return set
}

// removeID removes id from the sorted set if present.
func removeID(set []int64, id int64) []int64 {
	i := searchID(set, id)
	if i >= len(set) || set[i] != id {
		return set
	}
	return append(set[:i], set[i+1:]...)
}

// containsID reports whether the sorted set contains id.
func containsID(set []int64, id int64) bool {
	i := searchID(set, id)
	return i < len(set) && set[i] == id
}

// searchID returns the smallest index i such that set[i] >= id.
func searchID(set []int64, id int64) int {
	lo, hi := 0, len(set)
	for lo < hi {
		mid := (lo + hi) / 2
		if set[mid] < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
