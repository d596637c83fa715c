package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/database"
)

const (
	recentUsersLimit = 5
	growthMonths     = 6
	reportMonths     = 12
)

// Repository aggregates platform activity for the admin screens
// ⭐ SSOT: 관리자 리포트 집계는 여기서만
type Repository struct {
	pool database.Pool
	now  func() time.Time
}

// NewRepository creates a new report repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

// Build computes the full platform report
func (r *Repository) Build(ctx context.Context) (*contracts.Report, error) {
	report := &contracts.Report{GeneratedAt: r.now().UTC()}

	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::float8 FROM bids WHERE status = 'accepted'
	`).Scan(&report.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var err error
	if report.ProjectStats, err = r.counts(ctx, `
		SELECT COALESCE(status, 'open'), COUNT(*) FROM projects GROUP BY 1 ORDER BY 1
	`); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if report.JobStats, err = r.counts(ctx, `
		SELECT COALESCE(status, 'open'), COUNT(*) FROM jobs WHERE deleted_at IS NULL GROUP BY 1 ORDER BY 1
	`); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if report.BidStats, err = r.counts(ctx, `
		SELECT COALESCE(status, 'pending'), COUNT(*) FROM bids GROUP BY 1 ORDER BY 1
	`); err != nil {
		return nil, fmt.Errorf("failed to count bids: %w", err)
	}
	if report.UserStats, err = r.counts(ctx, `
		SELECT role, COUNT(*) FROM users GROUP BY 1 ORDER BY 1
	`); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if report.Monthly, err = r.monthly(ctx); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *Repository) counts(ctx context.Context, sql string) ([]contracts.StatusCount, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contracts.StatusCount, 0)
	for rows.Next() {
		var c contracts.StatusCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// monthly returns project, company and job activity for the last months that saw projects, newest first
func (r *Repository) monthly(ctx context.Context) ([]contracts.MonthlyActivity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			DATE_TRUNC('month', p.created_at) AS month,
			COUNT(DISTINCT p.id),
			COUNT(DISTINCT p.company_id),
			(
				SELECT COUNT(*) FROM jobs j
				WHERE j.deleted_at IS NULL
				  AND DATE_TRUNC('month', j.posted_date) = DATE_TRUNC('month', p.created_at)
			)
		FROM projects p
		GROUP BY 1
		ORDER BY 1 DESC
		LIMIT $1
	`, reportMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly activity: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.MonthlyActivity, 0, reportMonths)
	for rows.Next() {
		var m contracts.MonthlyActivity
		if err := rows.Scan(&m.Month, &m.ProjectsCreated, &m.Companies, &m.JobsPosted); err != nil {
			return nil, fmt.Errorf("failed to scan monthly activity: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Dashboard returns the admin landing page counters, recent signups and growth
func (r *Repository) Dashboard(ctx context.Context) (*contracts.Dashboard, error) {
	d := &contracts.Dashboard{
		RecentUsers: make([]contracts.User, 0, recentUsersLimit),
		GrowthData:  make([]contracts.GrowthPoint, 0, growthMonths),
	}

	if err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM projects WHERE status = 'in_progress'),
			(SELECT COUNT(*) FROM bids WHERE status = 'pending'),
			(SELECT COUNT(*) FROM projects WHERE status = 'completed')
	`).Scan(
		&d.Stats.TotalUsers, &d.Stats.ActiveProjects, &d.Stats.PendingBids, &d.Stats.CompletedProjects,
	); err != nil {
		return nil, fmt.Errorf("failed to count dashboard stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role, COALESCE(status, 'active'), created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`, recentUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent users: %w", err)
	}
	for rows.Next() {
		var u contracts.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recent user: %w", err)
		}
		d.RecentUsers = append(d.RecentUsers, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent users: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT
			DATE_TRUNC('month', created_at) AS month,
			COUNT(*) FILTER (WHERE role = 'company'),
			COUNT(*) FILTER (WHERE role = 'contractor'),
			COUNT(*)
		FROM users
		GROUP BY 1
		ORDER BY 1 DESC
		LIMIT $1
	`, growthMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to query user growth: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g contracts.GrowthPoint
		if err := rows.Scan(&g.Month, &g.Companies, &g.Contractors, &g.Total); err != nil {
			return nil, fmt.Errorf("failed to scan user growth: %w", err)
		}
		d.GrowthData = append(d.GrowthData, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user growth: %w", err)
	}

	// 최신순으로 읽고 차트용으로 뒤집음
	for i, j := 0, len(d.GrowthData)-1; i < j; i, j = i+1, j-1 {
		d.GrowthData[i], d.GrowthData[j] = d.GrowthData[j], d.GrowthData[i]
	}

	return d, nil
}

// SaveSnapshot stores the report for its day, replacing any earlier snapshot of that day
func (r *Repository) SaveSnapshot(ctx context.Context, report *contracts.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	day := report.GeneratedAt.UTC().Truncate(24 * time.Hour)
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO report_snapshots (snapshot_date, report, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (snapshot_date) DO UPDATE SET report = EXCLUDED.report, created_at = NOW()
	`, day, data); err != nil {
		return fmt.Errorf("failed to save report snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the stored report of a day, or ErrNotFound
func (r *Repository) Snapshot(ctx context.Context, day time.Time) (*contracts.Report, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `
		SELECT report FROM report_snapshots WHERE snapshot_date = $1
	`, day.UTC().Truncate(24*time.Hour)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report snapshot: %w", err)
	}

	var report contracts.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report snapshot: %w", err)
	}
	return &report, nil
}
