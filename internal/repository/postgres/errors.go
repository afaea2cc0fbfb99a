package postgres

import (
	"errors"

	"github.com/ckante203-dev/chat-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
