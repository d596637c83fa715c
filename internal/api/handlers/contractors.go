package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// ContractorStore is the contractor persistence the handlers use
type ContractorStore interface {
	List(ctx context.Context) ([]contracts.Contractor, error)
	Get(ctx context.Context, id int64) (*contracts.Contractor, error)
	Signals(ctx context.Context, contractorID int64) (*contracts.ContractorSignals, error)
	UpdateProfile(ctx context.Context, in contracts.ContractorProfileUpdate) error
}

// ContractorHandler serves contractor directory and profile endpoints
type ContractorHandler struct {
	store  ContractorStore
	logger *logger.Logger
}

// NewContractorHandler creates a new contractor handler
func NewContractorHandler(store ContractorStore, log *logger.Logger) *ContractorHandler {
	return &ContractorHandler{store: store, logger: log}
}

// List returns contractors, best rated first
// GET /api/company/contractors
func (h *ContractorHandler) List(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.store.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch contractors")
		return
	}
	respondJSON(w, http.StatusOK, contractors)
}

// Signals returns the scoring inputs of one contractor.
// Remote instances read this through the directory client.
// GET /api/contractors/{id}
func (h *ContractorHandler) Signals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	signals, err := h.store.Signals(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch contractor")
		return
	}
	respondJSON(w, http.StatusOK, signals)
}

// GetProfile returns a contractor profile
// GET /api/contractor/profile?contractorId=
func (h *ContractorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "contractorId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	contractor, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch profile")
		return
	}
	respondJSON(w, http.StatusOK, contractor)
}

// UpdateProfileRequest is the body of POST /api/contractor/profile
type UpdateProfileRequest struct {
	ContractorID    int64           `json:"contractorId" validate:"required,gt=0"`
	FullName        string          `json:"fullName" validate:"required,max=200"`
	Phone           string          `json:"phone" validate:"max=20"`
	Location        string          `json:"location" validate:"max=255"`
	Specialty       string          `json:"specialty"`
	Bio             string          `json:"bio" validate:"max=5000"`
	YearsExperience *int            `json:"yearsExperience" validate:"omitempty,gte=0,lte=80"`
	HourlyRate      contracts.Money `json:"hourlyRate" validate:"gte=0"`
}

// UpdateProfile overwrites the editable profile fields
// POST /api/contractor/profile
func (h *ContractorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	first, last := contracts.SplitFullName(req.FullName)
	city, state := contracts.SplitLocation(req.Location)

	err := h.store.UpdateProfile(r.Context(), contracts.ContractorProfileUpdate{
		ContractorID:    req.ContractorID,
		FirstName:       first,
		LastName:        last,
		Phone:           req.Phone,
		City:            city,
		State:           state,
		Specializations: req.Specialty,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		HourlyRate:      req.HourlyRate.Ptr(),
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
