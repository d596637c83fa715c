package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/database"
)

// Repository handles project persistence
// ⭐ SSOT: projects 테이블 접근은 여기서만
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new project repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectProjects = `
	SELECT
		p.id,
		p.company_id,
		COALESCE(c.company_name, ''),
		p.title,
		COALESCE(p.description, ''),
		COALESCE(p.category, ''),
		p.budget_min::float8,
		p.budget_max::float8,
		p.timeline_start,
		p.timeline_end,
		COALESCE(p.location, ''),
		COALESCE(p.status, 'open'),
		(SELECT COUNT(*) FROM bids b WHERE b.project_id = p.id),
		p.created_at
	FROM projects p
	LEFT JOIN companies c ON c.id = p.company_id
`

func scanProject(row pgx.Row) (*contracts.Project, error) {
	var p contracts.Project
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CompanyName, &p.Title, &p.Description, &p.Category,
		&p.BudgetMin, &p.BudgetMax, &p.TimelineStart, &p.TimelineEnd,
		&p.Location, &p.Status, &p.BidCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]contracts.Project, error) {
	rows, err := r.pool.Query(ctx, selectProjects+where+` ORDER BY p.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]contracts.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// ListByCompany returns a company's projects, newest first
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]contracts.Project, error) {
	return r.list(ctx, `WHERE p.company_id = $1`, companyID)
}

// ListOpen returns projects contractors can still bid on
func (r *Repository) ListOpen(ctx context.Context) ([]contracts.Project, error) {
	return r.list(ctx, `WHERE p.status = 'open'`)
}

// ListAll returns every project (admin)
func (r *Repository) ListAll(ctx context.Context) ([]contracts.Project, error) {
	return r.list(ctx, ``)
}

// ListOpenWithPendingBids returns open projects that have at least one pending bid
func (r *Repository) ListOpenWithPendingBids(ctx context.Context) ([]contracts.Project, error) {
	return r.list(ctx, `
		WHERE p.status = 'open'
		  AND EXISTS (SELECT 1 FROM bids b WHERE b.project_id = p.id AND b.status = 'pending')`)
}

// Get returns one project, or ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*contracts.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, selectProjects+`WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// Create inserts an open project
func (r *Repository) Create(ctx context.Context, in contracts.NewProject) (*contracts.Project, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (
			company_id, title, description, category, budget_min, budget_max,
			timeline_start, timeline_end, location, status, created_at, updated_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), 'open', NOW(), NOW())
		RETURNING id
	`,
		in.CompanyID, in.Title, in.Description, in.Category, in.BudgetMin, in.BudgetMax,
		in.TimelineStart, in.TimelineEnd, in.Location,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	return r.Get(ctx, id)
}

// Delete removes a project and its bids in one transaction
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bids WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete project bids: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project delete: %w", err)
	}
	return nil
}
