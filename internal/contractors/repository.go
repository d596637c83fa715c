package contractors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/database"
)

// Repository handles contractor profiles and their scoring signals.
// It is also the "db" ContractorSource.
// ⭐ SSOT: contractors 테이블 접근은 여기서만
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new contractor repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.ContractorSource = (*Repository)(nil)

const selectContractors = `
	SELECT
		c.id,
		c.user_id,
		COALESCE(u.email, ''),
		COALESCE(c.first_name, ''),
		COALESCE(c.last_name, ''),
		COALESCE(c.phone, ''),
		COALESCE(c.city, ''),
		COALESCE(c.state, ''),
		COALESCE(c.specializations, ''),
		COALESCE(c.bio, ''),
		c.hourly_rate::float8,
		c.years_experience,
		c.rating::float8,
		c.total_projects,
		COALESCE(c.verified, false),
		c.created_at
	FROM contractors c
	LEFT JOIN users u ON u.id = c.user_id
`

func scanContractor(row pgx.Row) (*contracts.Contractor, error) {
	var c contracts.Contractor
	err := row.Scan(
		&c.ID, &c.UserID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.City, &c.State,
		&c.Specializations, &c.Bio, &c.HourlyRate, &c.YearsExperience, &c.Rating, &c.TotalProjects,
		&c.Verified, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every contractor, best rated first
func (r *Repository) List(ctx context.Context) ([]contracts.Contractor, error) {
	rows, err := r.pool.Query(ctx, selectContractors+`
		ORDER BY c.rating DESC NULLS LAST, c.total_projects DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractors: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.Contractor, 0)
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contractor: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Get returns one contractor, or ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*contracts.Contractor, error) {
	c, err := scanContractor(r.pool.QueryRow(ctx, selectContractors+`WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contractor: %w", err)
	}
	return c, nil
}

// Signals returns the scoring inputs of one contractor
func (r *Repository) Signals(ctx context.Context, contractorID int64) (*contracts.ContractorSignals, error) {
	s := contracts.ContractorSignals{ContractorID: contractorID}
	err := r.pool.QueryRow(ctx, `
		SELECT rating::float8, years_experience, total_projects
		FROM contractors
		WHERE id = $1
	`, contractorID).Scan(&s.Rating, &s.YearsExperience, &s.TotalProjects)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contractor signals: %w", err)
	}
	return &s, nil
}

// UpdateProfile overwrites the editable profile fields. Nil numeric fields keep
// their stored value.
func (r *Repository) UpdateProfile(ctx context.Context, in contracts.ContractorProfileUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contractors SET
			first_name = $2,
			last_name = $3,
			phone = $4,
			city = $5,
			state = $6,
			specializations = $7,
			bio = $8,
			years_experience = COALESCE($9, years_experience),
			hourly_rate = COALESCE($10, hourly_rate),
			updated_at = NOW()
		WHERE id = $1
	`,
		in.ContractorID, in.FirstName, in.LastName, in.Phone, in.City, in.State,
		in.Specializations, in.Bio, in.YearsExperience, in.HourlyRate,
	)
	if err != nil {
		return fmt.Errorf("failed to update contractor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
