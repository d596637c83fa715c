package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// ProjectStore is the project persistence the handlers use
type ProjectStore interface {
	ListByCompany(ctx context.Context, companyID int64) ([]contracts.Project, error)
	ListOpen(ctx context.Context) ([]contracts.Project, error)
	ListAll(ctx context.Context) ([]contracts.Project, error)
	Get(ctx context.Context, id int64) (*contracts.Project, error)
	Create(ctx context.Context, in contracts.NewProject) (*contracts.Project, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectHandler serves company, contractor and admin project endpoints
type ProjectHandler struct {
	store  ProjectStore
	logger *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(store ProjectStore, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, logger: log}
}

// ListForCompany returns a company's projects
// GET /api/company/projects?companyId=
func (h *ProjectHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := queryID(r, "companyId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := h.store.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// ListOpen returns projects accepting bids, with their bid counts
// GET /api/contractor/projects
func (h *ProjectHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListOpen(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// ListAll returns every project
// GET /api/admin/projects
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// Get returns one project
// GET /api/company/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// CreateProjectRequest is the body of POST /api/company/projects.
// Budget is the upper bound and may be sent as "$12,000".
type CreateProjectRequest struct {
	CompanyID   int64           `json:"companyId" validate:"required,gt=0"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"max=100"`
	Location    string          `json:"location" validate:"max=255"`
	Budget      contracts.Money `json:"budget" validate:"gte=0"`
	BudgetMin   contracts.Money `json:"budgetMin" validate:"gte=0"`
	StartDate   string          `json:"startDate"`
	Deadline    string          `json:"deadline"`
}

func (req CreateProjectRequest) toNewProject() (contracts.NewProject, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Name)
	}
	if title == "" {
		return contracts.NewProject{}, fmt.Errorf("%w: title is required", contracts.ErrInvalidInput)
	}

	start, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return contracts.NewProject{}, err
	}
	end, err := parseDate(req.Deadline, "deadline")
	if err != nil {
		return contracts.NewProject{}, err
	}

	return contracts.NewProject{
		CompanyID:     req.CompanyID,
		Title:         title,
		Description:   req.Description,
		Category:      req.Category,
		BudgetMin:     req.BudgetMin.Ptr(),
		BudgetMax:     req.Budget.Ptr(),
		TimelineStart: start,
		TimelineEnd:   end,
		Location:      req.Location,
	}, nil
}

func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", contracts.ErrInvalidInput, field)
		}
	}
	return &t, nil
}

// Create posts a new open project
// POST /api/company/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.toNewProject()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.store.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create project")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"project_id": project.ID,
		"company_id": project.CompanyID,
	}).Info("Project created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "project": project})
}

// Delete removes a project and its bids
// DELETE /api/admin/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete project")
		return
	}

	h.logger.WithField("project_id", id).Info("Project deleted")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
