package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-user-api/internal/domain/repository"
)

func TestMapWriteErr(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := mapWriteErr(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Equal(t, orig, mapWriteErr(orig))
	})
}
