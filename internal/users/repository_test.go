package users

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/internal/contracts"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "status", "created_at"}

func userRow(id int64, email string, role contracts.Role) []any {
	return []any{id, "Jane Doe", email, "$2a$hash", role, contracts.UserActive, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
}

func TestRepository_CreateWithProfile_Company(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Acme Builders", "ops@acme.test", "hash", contracts.RoleCompany).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userRow(7, "ops@acme.test", contracts.RoleCompany)...))
	mock.ExpectQuery("INSERT INTO companies").
		WithArgs(int64(7), "Acme Builders").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	repo := NewRepository(mock)
	session, err := repo.CreateWithProfile(context.Background(), "Acme Builders", "ops@acme.test", "hash", contracts.RoleCompany)
	require.NoError(t, err)

	assert.Equal(t, int64(7), session.User.ID)
	require.NotNil(t, session.CompanyID)
	assert.Equal(t, int64(3), *session.CompanyID)
	assert.Nil(t, session.ContractorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateWithProfile_ContractorSplitsName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userRow(8, "jd@build.test", contracts.RoleContractor)...))
	mock.ExpectQuery("INSERT INTO contractors").
		WithArgs(int64(8), "Jane", "Doe").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectCommit()

	repo := NewRepository(mock)
	session, err := repo.CreateWithProfile(context.Background(), "Jane Doe", "jd@build.test", "hash", contracts.RoleContractor)
	require.NoError(t, err)

	require.NotNil(t, session.ContractorID)
	assert.Equal(t, int64(12), *session.ContractorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateWithProfile_EmailTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	repo := NewRepository(mock)
	_, err = repo.CreateWithProfile(context.Background(), "Jane", "dup@test", "hash", contracts.RoleCompany)
	assert.ErrorIs(t, err, contracts.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("jd@build.test").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userRow(8, "jd@build.test", contracts.RoleContractor)...))
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ghost@build.test").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mock)

	u, err := repo.GetByEmail(context.Background(), "jd@build.test")
	require.NoError(t, err)
	assert.Equal(t, contracts.RoleContractor, u.Role)
	assert.Equal(t, "$2a$hash", u.PasswordHash)

	_, err = repo.GetByEmail(context.Background(), "ghost@build.test")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePassword_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("newhash", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepository(mock)
	err = repo.UpdatePassword(context.Background(), 99, "newhash")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM users ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userRow(2, "b@test", contracts.RoleCompany)...).
			AddRow(userRow(1, "a@test", contracts.RoleAdmin)...))

	repo := NewRepository(mock)
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b@test", users[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM users").WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM users").WithArgs(int64(6)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 6), contracts.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
