package domain

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        int
	UUID      uuid.UUID
	Title     string
	Content   string
	UserID    string `db:"user_id"`
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *Note) BelongsToUser(uid string) bool {
	return n.UserID == uid
}
