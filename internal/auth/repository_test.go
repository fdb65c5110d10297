package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"phone", "avatar", "bio", "preferences", "plan", "created_at",
}

func TestRepositoryByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM users\s+WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(mock.NewRows(userCols).AddRow(
			"u1", "ana@example.com", "hash", "Ana", "", "", "", "", "{}", "free", created,
		))

	u, err := NewRepository(mock).ByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "free", u.Plan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`(?s)SELECT (.+) FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(mock.NewRows(userCols))

	_, err = NewRepository(mock).ByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, ErrUserNotFound), "err = %v, want ErrUserNotFound", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryEmailExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`(?s)SELECT id FROM users WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectQuery(`(?s)SELECT id FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(mock.NewRows([]string{"id"}))

	repo := NewRepository(mock)

	exists, err := repo.EmailExists(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdatePasswordUnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`(?s)UPDATE users SET password_hash = \$2 WHERE id = \$1`).
		WithArgs("ghost", "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewRepository(mock).UpdatePassword(context.Background(), "ghost", "newhash")
	assert.True(t, errors.Is(err, ErrUserNotFound), "err = %v, want ErrUserNotFound", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`(?s)INSERT INTO users`).
		WithArgs("u1", "ana@example.com", "hash", "Ana", "Lopez", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewRepository(mock).Create(context.Background(), User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		FirstName:    "Ana",
		LastName:     "Lopez",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
