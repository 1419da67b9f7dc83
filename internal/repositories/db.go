package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DB is the subset of pgxpool.Pool the repositories need. Keeping it an
// interface lets tests substitute fakes without a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ErrUniqueViolation is returned when an insert hits a unique constraint.
// Callers decide whether that is an error or a benign duplicate signal.
var ErrUniqueViolation = errors.New("unique_violation")

const pgUniqueViolationCode = "23505"

// classifyPgError maps a unique-constraint violation to ErrUniqueViolation
// and passes every other error through unchanged.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return ErrUniqueViolation
	}
	return err
}

// IsUniqueViolation reports whether err is (or wraps) a unique-constraint
// violation from the store.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}
