package bids

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/database"
)

const foreignKeyViolation = "23503"

// Repository handles bid persistence
// ⭐ SSOT: bids 테이블 접근은 여기서만
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new bid repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectBids = `
	SELECT
		b.id,
		b.project_id,
		COALESCE(p.title, ''),
		b.contractor_id,
		TRIM(CONCAT(ct.first_name, ' ', ct.last_name)),
		b.amount::float8,
		b.timeline_days,
		COALESCE(b.description, ''),
		COALESCE(b.status, 'pending'),
		b.selection_method,
		b.decided_at,
		b.created_at
	FROM bids b
	JOIN projects p ON p.id = b.project_id
	LEFT JOIN contractors ct ON ct.id = b.contractor_id
`

func scanBid(row pgx.Row) (*contracts.Bid, error) {
	var b contracts.Bid
	err := row.Scan(
		&b.ID, &b.ProjectID, &b.ProjectTitle, &b.ContractorID, &b.ContractorName,
		&b.Amount, &b.TimelineDays, &b.Description, &b.Status,
		&b.SelectionMethod, &b.DecidedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) list(ctx context.Context, where, order string, args ...any) ([]contracts.Bid, error) {
	rows, err := r.pool.Query(ctx, selectBids+where+order, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListByProject returns a project's bids in submission order.
// Submission order is the ranking order, so it also decides ties.
func (r *Repository) ListByProject(ctx context.Context, projectID int64) ([]contracts.Bid, error) {
	return r.list(ctx, `WHERE b.project_id = $1`, ` ORDER BY b.created_at ASC, b.id ASC`, projectID)
}

// ListByContractor returns a contractor's bids, newest first
func (r *Repository) ListByContractor(ctx context.Context, contractorID int64) ([]contracts.Bid, error) {
	return r.list(ctx, `WHERE b.contractor_id = $1`, ` ORDER BY b.created_at DESC`, contractorID)
}

// ListByCompany returns bids on any of a company's projects, newest first
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]contracts.Bid, error) {
	return r.list(ctx, `WHERE p.company_id = $1`, ` ORDER BY b.created_at DESC`, companyID)
}

// Get returns one bid, or ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*contracts.Bid, error) {
	b, err := scanBid(r.pool.QueryRow(ctx, selectBids+`WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return b, nil
}

// Create inserts a pending bid. An unknown project or contractor is ErrNotFound.
func (r *Repository) Create(ctx context.Context, in contracts.NewBid) (*contracts.Bid, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bids (project_id, contractor_id, amount, timeline_days, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), 'pending', NOW(), NOW())
		RETURNING id
	`, in.ProjectID, in.ContractorID, in.Amount, in.TimelineDays, in.Description).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert bid: %w", err)
	}

	return r.Get(ctx, id)
}

// Decide moves a pending bid to accepted or rejected and records how it was picked.
// A bid that exists but is no longer pending returns ErrBidNotPending.
func (r *Repository) Decide(ctx context.Context, d contracts.BidDecision) (*contracts.Bid, error) {
	status, err := d.Action.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidInput, err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE bids
		SET status = $2, selection_method = $3, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, d.BidID, status, d.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to decide bid: %w", err)
	}

	bid, err := r.Get(ctx, d.BidID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, contracts.ErrBidNotPending
	}
	return bid, nil
}
