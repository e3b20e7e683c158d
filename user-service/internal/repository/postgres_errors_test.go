package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*SQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewSQLUserRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestSQLUserRepository_PostgresEmailViolationIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("John", "Doe", nil, "john.doe@example.com", "1234567890").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), newJohnDoe())

	require.ErrorIs(t, err, models.ErrConflict)
	var conflict *models.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)
	assert.Equal(t, "john.doe@example.com", conflict.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUserRepository_PostgresUsernameViolationIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs(3, 3, "johndoe", "password123", "ROLE_USER", true, true, true, true).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "credentials_username_key"})
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), newJohnDoe())

	var conflict *models.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "username", conflict.Field)
	assert.Equal(t, "johndoe", conflict.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUserRepository_PostgresPlaceholders(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE u\.email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUserRepository_OtherErrorsAreWrapped(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(1).WillReturnError(boom)

	_, err := repo.ExistsByID(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to check user")
}

func TestUniqueViolation(t *testing.T) {
	field, ok := uniqueViolation(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	assert.True(t, ok)
	assert.Equal(t, "email", field)

	field, ok = uniqueViolation(&pq.Error{Code: "23505", Constraint: "something_else"})
	assert.True(t, ok)
	assert.Empty(t, field)

	_, ok = uniqueViolation(&pq.Error{Code: "23503"})
	assert.False(t, ok)

	_, ok = uniqueViolation(errors.New("plain"))
	assert.False(t, ok)
}
