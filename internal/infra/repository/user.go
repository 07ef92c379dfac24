package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/user"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	createUserSQL = `INSERT INTO users (id, email, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id`

	updateLastLoginSQL = `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`
)

var _ shared.UserRepository = (*UserRepository)(nil)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createUserSQL,
		u.ID(), u.Email().Value(), u.Phone().Value(), u.PasswordHash(), u.Role().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapWriteErr("creating user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error {
	if _, err := tx.Exec(ctx, updateLastLoginSQL, userID); err != nil {
		return wrapWriteErr("updating last login", err)
	}
	return nil
}
