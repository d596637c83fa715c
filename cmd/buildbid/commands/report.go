package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/reports"
	"github.com/wonny/buildbid/backend/pkg/database"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// reportCmd exports the admin report without going through the API
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "플랫폼 리포트",
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "리포트 CSV 내보내기",
	Long: `Builds the platform report (revenue, project/job/bid/user statistics)
and writes it as CSV, the same file GET /api/admin/reports/export serves.

With --date, the stored daily snapshot for that day is exported instead.

Example:
  go run ./cmd/buildbid report export
  go run ./cmd/buildbid report export --dir /tmp --date 2026-10-01`,
	RunE: runReportExport,
}

var (
	reportDir  string
	reportDate string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportExportCmd)

	reportExportCmd.Flags().StringVar(&reportDir, "dir", ".", "output directory")
	reportExportCmd.Flags().StringVar(&reportDate, "date", "", "export the snapshot of this day (YYYY-MM-DD)")
}

func runReportExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := reports.NewRepository(db.Pool)

	stamp := time.Now()
	var r *contracts.Report
	if reportDate != "" {
		day, perr := time.Parse("2006-01-02", reportDate)
		if perr != nil {
			return fmt.Errorf("invalid --date: %w", perr)
		}
		stamp = day
		r, err = repo.Snapshot(cmd.Context(), day)
	} else {
		r, err = repo.Build(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	path := filepath.Join(reportDir, reports.ExportFilename(stamp))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := reports.WriteCSV(f, r); err != nil {
		return err
	}

	log.WithField("file", path).Info("Report exported")
	PrintSuccess("Report written to " + path)
	return nil
}
