package port

import (
	"context"
	"time"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
)

type TaskRepository interface {
	// GetAllWithCursor lists the owner's tasks newest-first. A limit
	// <= 0 returns the full list; the extra bool reports whether more
	// rows exist past the returned page.
	GetAllWithCursor(ctx context.Context, owner string, limit int, cursor string) ([]domain.Task, bool, error)
	// GetByDeadlineRange lists the owner's tasks whose deadline falls
	// inside [from, to], bounds inclusive, ISO-8601 strings.
	GetByDeadlineRange(ctx context.Context, owner string, from, to string) ([]domain.Task, error)
	// GetByUUID reports absence through the bool, not the error.
	GetByUUID(ctx context.Context, uid string) (domain.Task, bool, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateByUUID(ctx context.Context, task domain.Task) (domain.Task, error)
	// SetCompleted is the partial update behind toggle: only completed
	// and updated_at change.
	SetCompleted(ctx context.Context, owner, uid string, completed bool, updatedAt time.Time) (domain.Task, error)
	DeleteByUUID(ctx context.Context, owner, uid string) error
	CountByOwner(ctx context.Context, owner string) (total, completed int, err error)
}

type TaskService interface {
	ListWithPagination(ctx context.Context, owner string, limit int, cursor string) (*response.CursorResponse, error)
	List(ctx context.Context, owner string) ([]domain.Task, error)
	ListByDeadlineRange(ctx context.Context, owner string, from, to string) ([]domain.Task, error)
	Create(ctx context.Context, owner string, fields map[string]any) (domain.Task, error)
	Update(ctx context.Context, owner, uid string, fields map[string]any) (domain.Task, error)
	ToggleComplete(ctx context.Context, owner, uid string, completed bool) (domain.Task, error)
	Delete(ctx context.Context, owner, uid string) error
}
