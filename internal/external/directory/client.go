package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/httputil"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// Client reads contractor scoring signals from a remote buildbid directory
// ⭐ SSOT: 외부 계약자 디렉터리 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

var _ contracts.ContractorSource = (*Client)(nil)

// NewClient creates a directory client for baseURL (e.g. https://directory.example.com)
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Signals fetches GET {base}/api/contractors/{id}. A 404 is ErrNotFound.
func (c *Client) Signals(ctx context.Context, contractorID int64) (*contracts.ContractorSignals, error) {
	url := fmt.Sprintf("%s/api/contractors/%d", c.baseURL, contractorID)

	var signals contracts.ContractorSignals
	if err := c.httpClient.GetJSON(ctx, url, &signals); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch contractor %d: %w", contractorID, err)
	}

	if signals.ContractorID == 0 {
		signals.ContractorID = contractorID
	}
	return &signals, nil
}
