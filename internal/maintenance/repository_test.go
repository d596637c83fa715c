package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Enabled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT is_enabled FROM maintenance_mode").
		WillReturnRows(pgxmock.NewRows([]string{"is_enabled"}).AddRow(true))
	mock.ExpectQuery("SELECT is_enabled FROM maintenance_mode").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mock)

	on, err := repo.Enabled(context.Background())
	require.NoError(t, err)
	assert.True(t, on)

	on, err = repo.Enabled(context.Background())
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetEnabled_InsertsFirstRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE maintenance_mode").
		WithArgs(true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("INSERT INTO maintenance_mode").
		WithArgs(true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewRepository(mock)
	require.NoError(t, repo.SetEnabled(context.Background(), true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetEnabled_UpdatesExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE maintenance_mode").
		WithArgs(false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := NewRepository(mock)
	require.NoError(t, repo.SetEnabled(context.Background(), false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetEnabled_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE maintenance_mode").
		WillReturnError(errors.New("read-only transaction"))
	mock.ExpectRollback()

	repo := NewRepository(mock)
	assert.ErrorContains(t, repo.SetEnabled(context.Background(), true), "failed to update maintenance flag")
	require.NoError(t, mock.ExpectationsWereMet())
}
