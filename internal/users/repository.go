package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/database"
)

const uniqueViolation = "23505"

// Repository handles users and their profile rows
// ⭐ SSOT: users 테이블 접근은 여기서만
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new user repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, COALESCE(status, 'active'), created_at`

func scanUser(row pgx.Row) (*contracts.User, error) {
	var u contracts.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateWithProfile inserts a user and, for company or contractor roles, the
// matching profile row in one transaction.
func (r *Repository) CreateWithProfile(ctx context.Context, name, email, passwordHash string, role contracts.Role) (*contracts.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'active', NOW(), NOW())
		RETURNING `+userColumns,
		name, email, passwordHash, role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, contracts.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	session := &contracts.Session{User: *user}

	switch role {
	case contracts.RoleCompany:
		var id int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO companies (user_id, company_name, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			RETURNING id
		`, user.ID, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert company: %w", err)
		}
		session.CompanyID = &id
	case contracts.RoleContractor:
		first, last := contracts.SplitFullName(name)
		var id int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO contractors (user_id, first_name, last_name, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id
		`, user.ID, first, last).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert contractor: %w", err)
		}
		session.ContractorID = &id
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit signup: %w", err)
	}

	return session, nil
}

// GetByEmail returns the user with email, or ErrNotFound
func (r *Repository) GetByEmail(ctx context.Context, email string) (*contracts.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetByID returns the user with id, or ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ProfileIDs returns the company and contractor ids owned by a user (nil when absent)
func (r *Repository) ProfileIDs(ctx context.Context, userID int64) (companyID, contractorID *int64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT id FROM companies WHERE user_id = $1),
			(SELECT id FROM contractors WHERE user_id = $1)
	`, userID).Scan(&companyID, &contractorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile ids: %w", err)
	}
	return companyID, contractorID, nil
}

// UpdatePassword stores a new password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// List returns every user, newest first
func (r *Repository) List(ctx context.Context) ([]contracts.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

// Recent returns the newest limit users
func (r *Repository) Recent(ctx context.Context, limit int) ([]contracts.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]contracts.User, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]contracts.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Delete removes a user; profile rows, projects and bids cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
