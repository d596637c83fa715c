package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// ReportStore builds the admin report and persists a daily copy of it
type ReportStore interface {
	Build(ctx context.Context) (*contracts.Report, error)
	SaveSnapshot(ctx context.Context, report *contracts.Report) error
}

// ReportSnapshotJob stores yesterday's closing platform report
// Schedule: 1 AM daily
type ReportSnapshotJob struct {
	reports ReportStore
	logger  *logger.Logger
}

// NewReportSnapshotJob creates a new report snapshot job
func NewReportSnapshotJob(reports ReportStore, log *logger.Logger) *ReportSnapshotJob {
	return &ReportSnapshotJob{
		reports: reports,
		logger:  log,
	}
}

// Name returns the job name
func (j *ReportSnapshotJob) Name() string {
	return "report_snapshot"
}

// Schedule returns the cron schedule (1 AM daily)
func (j *ReportSnapshotJob) Schedule() string {
	return "0 0 1 * * *"
}

// Run builds the report and upserts today's snapshot
func (j *ReportSnapshotJob) Run(ctx context.Context) error {
	report, err := j.reports.Build(ctx)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if err := j.reports.SaveSnapshot(ctx, report); err != nil {
		return fmt.Errorf("save report snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"revenue": report.TotalRevenue,
		"months":  len(report.Monthly),
	}).Info("Report snapshot saved")

	return nil
}
