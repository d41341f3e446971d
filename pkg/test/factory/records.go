package factory

import (
	"time"

	"github.com/google/uuid"

	"noteflow/internal/core/domain"
)

// NewTask builds a valid persisted-shape task for one owner. Override
// fields on the returned value as needed.
func NewTask(owner string) domain.Task {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Task{
		UUID:      uuid.New(),
		Title:     "Write weekly report",
		UserID:    owner,
		Completed: false,
		IsDaily:   false,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewNote(owner string) domain.Note {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Note{
		UUID:      uuid.New(),
		Title:     "Meeting notes",
		Content:   "Discussed the quarterly roadmap.",
		UserID:    owner,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
