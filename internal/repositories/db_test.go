package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPgError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		require.NoError(t, classifyPgError(nil))
	})

	t.Run("unique violation is classified", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "checkout_sessions_stripe_session_id_key"}
		err := classifyPgError(pgErr)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("wrapped unique violation is classified", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		err := classifyPgError(fmt.Errorf("exec insert: %w", pgErr))
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503"} // foreign key violation
		err := classifyPgError(pgErr)
		assert.False(t, IsUniqueViolation(err))
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("non-pg errors pass through", func(t *testing.T) {
		plain := errors.New("connection refused")
		err := classifyPgError(plain)
		assert.False(t, IsUniqueViolation(err))
		assert.Equal(t, plain, err)
	})
}
