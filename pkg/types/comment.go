package types

import "time"

// Comment is a note attached to a task. Only the comment's author may
// update or delete it; comments are purged in bulk when their task or
// author is deleted.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
