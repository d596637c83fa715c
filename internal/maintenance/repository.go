package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/buildbid/backend/pkg/database"
)

// Repository reads and writes the single maintenance_mode row
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new maintenance repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

// Enabled reports the stored flag. No row means disabled.
func (r *Repository) Enabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx, `SELECT is_enabled FROM maintenance_mode ORDER BY id LIMIT 1`).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read maintenance flag: %w", err)
	}
	return enabled, nil
}

// SetEnabled updates the flag, creating the row on first use
func (r *Repository) SetEnabled(ctx context.Context, enabled bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE maintenance_mode SET is_enabled = $1, updated_at = NOW()`, enabled)
	if err != nil {
		return fmt.Errorf("failed to update maintenance flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `INSERT INTO maintenance_mode (is_enabled, updated_at) VALUES ($1, NOW())`, enabled); err != nil {
			return fmt.Errorf("failed to insert maintenance flag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit maintenance flag: %w", err)
	}
	return nil
}
