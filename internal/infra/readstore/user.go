package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	findUserByIDSQL = `SELECT id, email, phone, role, is_active FROM users WHERE id = $1`

	findUserByEmailSQL = `SELECT id, email, phone, role, is_active, password_hash
		FROM users WHERE email = $1 AND is_active = TRUE`
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	rows, err := r.db.Query(ctx, findUserByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("finding user by ID", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[queries.AuthorizedUserView])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding user by ID", err)
	}
	return view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		view queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, findUserByEmailSQL, email).Scan(
		&view.ID, &view.Email, &view.Phone, &view.Role, &view.IsActive, &hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("finding user by email", err)
	}
	return &view, hash, nil
}
