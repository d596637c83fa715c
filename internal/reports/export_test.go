package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/internal/contracts"
)

func TestExportFilename(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	assert.Equal(t, "report-2026-05-13.csv", ExportFilename(time.Date(2026, 5, 14, 8, 0, 0, 0, loc)))
}

func TestWriteCSV(t *testing.T) {
	report := &contracts.Report{
		GeneratedAt:  fixedNow,
		TotalRevenue: 125_000.5,
		ProjectStats: []contracts.StatusCount{{Key: "open", Count: 5}},
		JobStats:     []contracts.StatusCount{},
		BidStats:     []contracts.StatusCount{{Key: "pending", Count: 9}},
		UserStats:    []contracts.StatusCount{{Key: "company", Count: 6}, {Key: "contractor", Count: 11}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Construction Bidding Platform - Report Export\n"))
	assert.Contains(t, out, "REVENUE SUMMARY\nTotal Revenue (Accepted Bids),125000.50\n")
	assert.Contains(t, out, "PROJECT STATISTICS\nStatus,Count\nopen,5\n")
	assert.Contains(t, out, "JOB STATISTICS\nStatus,Count\n\n")
	assert.Contains(t, out, "BID STATISTICS\nStatus,Count\npending,9\n")
	assert.Contains(t, out, "USER STATISTICS\nRole,Count\ncompany,6\ncontractor,11\n")
}
