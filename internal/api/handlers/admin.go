package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/reports"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// UserAdmin is the user management the admin screens need
type UserAdmin interface {
	List(ctx context.Context) ([]contracts.User, error)
	Delete(ctx context.Context, id int64) error
}

// ReportSource builds admin reports
type ReportSource interface {
	Build(ctx context.Context) (*contracts.Report, error)
	Dashboard(ctx context.Context) (*contracts.Dashboard, error)
}

// AdminHandler serves /api/admin users, dashboard and reports
type AdminHandler struct {
	users   UserAdmin
	reports ReportSource
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users UserAdmin, reports ReportSource, log *logger.Logger) *AdminHandler {
	return &AdminHandler{users: users, reports: reports, logger: log}
}

// ListUsers returns every account
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// DeleteUserRequest is the body of DELETE /api/admin/users/delete
type DeleteUserRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// DeleteUser removes an account
// DELETE /api/admin/users/delete
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Delete(r.Context(), req.UserID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete user")
		return
	}

	h.logger.WithField("user_id", req.UserID).Info("User deleted")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Dashboard returns the admin landing page. A failed query degrades to an
// empty dashboard so the page still renders.
// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build dashboard")
		dashboard = &contracts.Dashboard{
			RecentUsers: []contracts.User{},
			GrowthData:  []contracts.GrowthPoint{},
		}
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Reports returns the platform report
// GET /api/admin/reports
func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Build(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch reports")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// ExportReport downloads the platform report as CSV
// GET /api/admin/reports/export
func (h *AdminHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Build(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export report")
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, report); err != nil {
		respondServiceError(w, h.logger, err, "Failed to export report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reports.ExportFilename(time.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
