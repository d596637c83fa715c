package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// BidReader lists bids for the dashboards
type BidReader interface {
	ListByContractor(ctx context.Context, contractorID int64) ([]contracts.Bid, error)
	ListByCompany(ctx context.Context, companyID int64) ([]contracts.Bid, error)
}

// BidService submits and decides bids
type BidService interface {
	Submit(ctx context.Context, in contracts.NewBid) (*contracts.Bid, error)
	Decide(ctx context.Context, d contracts.BidDecision) (*contracts.Bid, error)
}

// BidHandler serves contractor and company bid endpoints
type BidHandler struct {
	reader  BidReader
	service BidService
	logger  *logger.Logger
}

// NewBidHandler creates a new bid handler
func NewBidHandler(reader BidReader, service BidService, log *logger.Logger) *BidHandler {
	return &BidHandler{reader: reader, service: service, logger: log}
}

// ListForContractor returns a contractor's bids
// GET /api/contractor/bids?contractorId=
func (h *BidHandler) ListForContractor(w http.ResponseWriter, r *http.Request) {
	contractorID, err := queryID(r, "contractorId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bids, err := h.reader.ListByContractor(r.Context(), contractorID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch bids")
		return
	}
	respondJSON(w, http.StatusOK, bids)
}

// ListForCompany returns bids on a company's projects
// GET /api/company/bids?companyId=
func (h *BidHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := queryID(r, "companyId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bids, err := h.reader.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch bids")
		return
	}
	respondJSON(w, http.StatusOK, bids)
}

// SubmitBidRequest is the body of POST /api/contractor/bids
type SubmitBidRequest struct {
	ProjectID    int64           `json:"projectId" validate:"required,gt=0"`
	ContractorID int64           `json:"contractorId" validate:"required,gt=0"`
	Amount       contracts.Money `json:"amount" validate:"gt=0"`
	TimelineDays *int            `json:"timelineDays" validate:"omitempty,gt=0"`
	Description  string          `json:"description" validate:"max=5000"`
}

// Submit records a pending bid
// POST /api/contractor/bids
func (h *BidHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitBidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bid, err := h.service.Submit(r.Context(), contracts.NewBid{
		ProjectID:    req.ProjectID,
		ContractorID: req.ContractorID,
		Amount:       float64(req.Amount),
		TimelineDays: req.TimelineDays,
		Description:  req.Description,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to submit bid")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "bid": bid})
}

// DecideBidRequest is the body of POST /api/company/bids
type DecideBidRequest struct {
	BidID  int64                     `json:"bidId" validate:"required,gt=0"`
	Action contracts.DecisionAction  `json:"action" validate:"required,oneof=accept reject"`
	Method contracts.SelectionMethod `json:"method" validate:"omitempty,oneof=manual ai"`
}

// Decide accepts or rejects a pending bid
// POST /api/company/bids
func (h *BidHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req DecideBidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bid, err := h.service.Decide(r.Context(), contracts.BidDecision{
		BidID:  req.BidID,
		Action: req.Action,
		Method: req.Method,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update bid")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "bid": bid})
}
