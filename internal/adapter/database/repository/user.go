package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"noteflow/internal/adapter/database"
	"noteflow/internal/core/domain"
	"noteflow/internal/core/port"
)

type UserRepository struct {
	db      *database.DB
	scanner *database.Scanner
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{
		db:      db,
		scanner: database.NewScanner(),
	}
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	return ur.getOne(ctx, sq.Eq{"uuid": uid})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getOne(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) getOne(ctx context.Context, pred sq.Eq) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(pred).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, domain.WrapStore(err)
	}

	rows, err := ur.db.QueryContext(ctx, query, args...)

	if err != nil {
		return domain.User{}, domain.WrapStore(err)
	}

	defer rows.Close()

	var user domain.User
	err = ur.scanner.ScanRowToStruct(rows, &user)

	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user: %w", domain.ErrNotFound)
	}

	if err != nil {
		return domain.User{}, domain.WrapStore(err)
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	uid := user.UUID.String()

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "created_at", "updated_at").
		Values(uid, user.Name, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, domain.WrapStore(err)
	}

	if _, err := ur.db.ExecContext(ctx, query, args...); err != nil {
		return domain.User{}, domain.WrapStore(err)
	}

	return ur.GetByUUID(ctx, uid)
}
