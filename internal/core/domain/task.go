package domain

import (
	"time"

	"github.com/google/uuid"
)

// SuggestedTags is the fixed label set offered by clients as an input
// affordance. It is not a storage-level constraint; any string is a
// valid tag.
var SuggestedTags = []string{"Work", "Urgent", "Personal", "Home", "Other"}

type Task struct {
	ID          int
	UUID        uuid.UUID
	Title       string
	Description string
	UserID      string `db:"user_id"`
	Completed   bool
	Deadline    *string `db:"deadline"`
	IsDaily     bool    `db:"is_daily"`
	DailyTime   *string `db:"daily_time"`
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) BelongsToUser(uid string) bool {
	return t.UserID == uid
}

// HasDeadline reports whether the task carries a non-empty deadline.
func (t *Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}
