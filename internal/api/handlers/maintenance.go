package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/buildbid/backend/pkg/logger"
)

// MaintenanceService reads and flips the platform maintenance flag
type MaintenanceService interface {
	Active(ctx context.Context) bool
	SetActive(ctx context.Context, active bool) error
}

// MaintenanceHandler serves /api/maintenance
type MaintenanceHandler struct {
	service MaintenanceService
	logger  *logger.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(service MaintenanceService, log *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{service: service, logger: log}
}

type maintenanceState struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Get reports whether maintenance mode is on
// GET /api/maintenance
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	active := h.service.Active(r.Context())
	respondJSON(w, http.StatusOK, maintenanceState{IsActive: &active})
}

// Put turns maintenance mode on or off
// PUT /api/maintenance
func (h *MaintenanceHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req maintenanceState
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetActive(r.Context(), *req.IsActive); err != nil {
		respondServiceError(w, h.logger, err, "Failed to update maintenance mode")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true, "isActive": *req.IsActive})
}
