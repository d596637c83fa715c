package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wonny/buildbid/backend/internal/contracts"
)

// ExportFilename names the CSV attachment for a report generated at t
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("report-%s.csv", t.UTC().Format("2006-01-02"))
}

// WriteCSV renders the report as the sectioned CSV admins download
func WriteCSV(w io.Writer, report *contracts.Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Construction Bidding Platform - Report Export"},
		{"Generated: " + report.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"REVENUE SUMMARY"},
		{"Total Revenue (Accepted Bids)", strconv.FormatFloat(report.TotalRevenue, 'f', 2, 64)},
		{},
	}
	records = appendSection(records, "PROJECT STATISTICS", "Status", report.ProjectStats)
	records = appendSection(records, "JOB STATISTICS", "Status", report.JobStats)
	records = appendSection(records, "BID STATISTICS", "Status", report.BidStats)
	records = appendSection(records, "USER STATISTICS", "Role", report.UserStats)

	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write report csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report csv: %w", err)
	}
	return nil
}

func appendSection(records [][]string, title, keyHeader string, counts []contracts.StatusCount) [][]string {
	records = append(records, []string{title}, []string{keyHeader, "Count"})
	for _, c := range counts {
		records = append(records, []string{c.Key, strconv.FormatInt(c.Count, 10)})
	}
	return append(records, []string{})
}
