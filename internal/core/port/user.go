package port

import (
	"context"

	"noteflow/internal/core/domain"
)

type UserRepository interface {
	GetByUUID(ctx context.Context, uid string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}
