package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/matching"
)

var jobCols = []string{
	"id", "company_id", "company_name", "title", "description", "category",
	"skills", "location", "budget", "experience_level", "phone", "website",
	"deadline", "status", "posted_date",
}

func ptr[T any](v T) *T { return &v }

func jobRow(id int64, title, category, level string, budget *float64) []any {
	return []any{
		id, int64(3), "Acme Builders", title, "Crew needed for " + title, category,
		[]string{category}, "Austin, TX", budget, level, "", "",
		(*time.Time)(nil), contracts.JobOpen, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepository_List_Filters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`j.location ILIKE .* j.experience_level = \$2 .* \$3 = ANY\(j.skills\) .* j.budget >= \$4 .* LIMIT \$5`).
		WithArgs("austin", "Expert", "Roofing", 1000.0, MaxListed).
		WillReturnRows(pgxmock.NewRows(jobCols).
			AddRow(jobRow(1, "Roof crew lead", "Roofing", "Expert", ptr(5000.0))...))

	repo := NewRepository(mock)
	jobs, err := repo.List(context.Background(), contracts.JobFilter{
		Location:        "austin",
		ExperienceLevel: "Expert",
		Category:        "Roofing",
		MinBudget:       ptr(1000.0),
		Limit:           500,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, []string{"Roofing"}, jobs[0].Skills)
	assert.Equal(t, 5000.0, *jobs[0].Budget)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_AllIgnored(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(jobCols))

	repo := NewRepository(mock)
	jobs, err := repo.List(context.Background(), contracts.JobFilter{ExperienceLevel: "all", Category: "all", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO jobs").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`AND j.id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(jobCols).AddRow(jobRow(7, "Framer", "Framing", "Intermediate", nil)...))

	repo := NewRepository(mock)
	job, err := repo.Create(context.Background(), contracts.NewJob{
		CompanyID: 3, Title: "Framer", Description: "Framing crew", Location: "Austin, TX",
		ExperienceLevel: "Intermediate",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), job.ID)
	assert.Nil(t, job.Budget)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE jobs SET deleted_at").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE jobs SET deleted_at").
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.ErrorIs(t, repo.Delete(context.Background(), 8), contracts.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Match(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("j.status = 'open'").
		WillReturnRows(pgxmock.NewRows(jobCols).
			AddRow(jobRow(1, "Painter", "Painting", "Entry Level", ptr(800.0))...).
			AddRow(jobRow(2, "Roofer", "Roofing", "Expert", ptr(5000.0))...))

	repo := NewRepository(mock)
	matches, err := repo.Match(context.Background(), matching.Filters{
		Categories: []string{"Roofing"},
		MinBudget:  4000,
		MaxBudget:  6000,
		Distance:   25,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].ID)
	assert.Positive(t, matches[0].MatchScore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM jobs").WillReturnError(errors.New("connection reset"))

	repo := NewRepository(mock)
	_, err = repo.ListAll(context.Background())
	assert.ErrorContains(t, err, "failed to query jobs")
}
