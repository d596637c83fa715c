package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/matching"
	"github.com/wonny/buildbid/backend/pkg/database"
)

// MaxListed caps GET /api/jobs
const MaxListed = 50

// Repository handles job postings
// ⭐ SSOT: jobs 테이블 접근은 여기서만
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new job repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectJobs = `
	SELECT
		j.id,
		j.company_id,
		COALESCE(c.company_name, ''),
		j.title,
		j.description,
		COALESCE(j.category, ''),
		j.skills,
		COALESCE(j.location, ''),
		j.budget::float8,
		COALESCE(j.experience_level, ''),
		COALESCE(j.phone, ''),
		COALESCE(j.website, ''),
		j.deadline,
		COALESCE(j.status, 'open'),
		j.posted_date
	FROM jobs j
	LEFT JOIN companies c ON c.id = j.company_id
	WHERE j.deleted_at IS NULL
`

func scanJob(row pgx.Row) (*contracts.Job, error) {
	var j contracts.Job
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.Category,
		&j.Skills, &j.Location, &j.Budget, &j.ExperienceLevel, &j.Phone, &j.Website,
		&j.Deadline, &j.Status, &j.PostedDate,
	)
	if err != nil {
		return nil, err
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return &j, nil
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]contracts.Job, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]contracts.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// List returns open jobs narrowed by f, newest first
func (r *Repository) List(ctx context.Context, f contracts.JobFilter) ([]contracts.Job, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(selectJobs)
	sb.WriteString(` AND j.status = 'open'`)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Location != "" {
		sb.WriteString(` AND j.location ILIKE '%' || ` + arg(f.Location) + ` || '%'`)
	}
	if f.ExperienceLevel != "" && f.ExperienceLevel != "all" {
		sb.WriteString(` AND j.experience_level = ` + arg(f.ExperienceLevel))
	}
	if f.Category != "" && f.Category != "all" {
		sb.WriteString(` AND ` + arg(f.Category) + ` = ANY(j.skills)`)
	}
	if f.MinBudget != nil {
		sb.WriteString(` AND j.budget >= ` + arg(*f.MinBudget))
	}
	if f.MaxBudget != nil {
		sb.WriteString(` AND j.budget <= ` + arg(*f.MaxBudget))
	}

	limit := f.Limit
	if limit <= 0 || limit > MaxListed {
		limit = MaxListed
	}
	sb.WriteString(` ORDER BY j.posted_date DESC LIMIT ` + arg(limit))

	return r.query(ctx, sb.String(), args...)
}

// ListAll returns every job that is not deleted (admin)
func (r *Repository) ListAll(ctx context.Context) ([]contracts.Job, error) {
	return r.query(ctx, selectJobs+` ORDER BY j.posted_date DESC`)
}

// Create posts an open job
func (r *Repository) Create(ctx context.Context, in contracts.NewJob) (*contracts.Job, error) {
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (
			company_id, title, description, category, skills, location, budget,
			experience_level, phone, website, deadline, status, posted_date, created_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, 'open', NOW(), NOW())
		RETURNING id
	`,
		in.CompanyID, in.Title, in.Description, in.Category, skills, in.Location, in.Budget,
		in.ExperienceLevel, in.Phone, in.Website, in.Deadline,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	job, err := scanJob(r.pool.QueryRow(ctx, selectJobs+` AND j.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload job: %w", err)
	}
	return job, nil
}

// Delete soft-deletes a job
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE jobs SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// Match scores every open job against f.
// Jobs carry no coordinates yet, so every candidate sits at distance 0.
func (r *Repository) Match(ctx context.Context, f matching.Filters) ([]matching.Match, error) {
	jobs, err := r.query(ctx, selectJobs+` AND j.status = 'open' ORDER BY j.posted_date DESC`)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(jobs))
	for _, j := range jobs {
		candidates = append(candidates, matching.Candidate{Job: j})
	}
	return matching.MatchJobs(candidates, f), nil
}
