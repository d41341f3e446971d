package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Name              string
	Email             string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UID is the opaque owner identity all task and note queries are scoped by.
func (u *User) UID() string {
	return u.UUID.String()
}

// Identity is the session-facing view of a signed-in user. The zero
// Identity means signed out.
type Identity struct {
	UID   string
	Email string
}

func (i Identity) SignedIn() bool {
	return i.UID != ""
}
