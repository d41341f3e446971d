package port

import (
	"context"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
)

type NoteRepository interface {
	// GetAllWithCursor lists the owner's notes most-recently-touched
	// first. A limit <= 0 returns the full list.
	GetAllWithCursor(ctx context.Context, owner string, limit int, cursor string) ([]domain.Note, bool, error)
	GetByUUID(ctx context.Context, uid string) (domain.Note, bool, error)
	Create(ctx context.Context, note domain.Note) (domain.Note, error)
	UpdateByUUID(ctx context.Context, note domain.Note) (domain.Note, error)
	DeleteByUUID(ctx context.Context, owner, uid string) error
	CountByOwner(ctx context.Context, owner string) (int, error)
}

type NoteService interface {
	ListWithPagination(ctx context.Context, owner string, limit int, cursor string) (*response.CursorResponse, error)
	List(ctx context.Context, owner string) ([]domain.Note, error)
	Create(ctx context.Context, owner string, fields map[string]any) (domain.Note, error)
	Update(ctx context.Context, owner, uid string, fields map[string]any) (domain.Note, error)
	Delete(ctx context.Context, owner, uid string) error
}
