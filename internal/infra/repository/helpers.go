package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"storefront/internal/infra"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// wrapWriteErr classifies constraint violations so usecases can branch on
// infra.IsKind without seeing pgconn types.
func wrapWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}

func wrapNotFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func wrapDuplicate(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindDuplicateKey)
}
