package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/matching"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// JobStore is the job persistence the handlers use
type JobStore interface {
	List(ctx context.Context, f contracts.JobFilter) ([]contracts.Job, error)
	ListAll(ctx context.Context) ([]contracts.Job, error)
	Create(ctx context.Context, in contracts.NewJob) (*contracts.Job, error)
	Delete(ctx context.Context, id int64) error
	Match(ctx context.Context, f matching.Filters) ([]matching.Match, error)
}

// JobHandler serves job postings and job matching
type JobHandler struct {
	store  JobStore
	logger *logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(store JobStore, log *logger.Logger) *JobHandler {
	return &JobHandler{store: store, logger: log}
}

// List returns open jobs
// GET /api/jobs?location=&experienceLevel=&category=&minBudget=&maxBudget=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := contracts.JobFilter{
		Location:        strings.TrimSpace(q.Get("location")),
		ExperienceLevel: q.Get("experienceLevel"),
		Category:        q.Get("category"),
	}

	var err error
	if filter.MinBudget, err = queryFloat(r, "minBudget"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MaxBudget, err = queryFloat(r, "maxBudget"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.store.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// ListAll returns every job that is not deleted
// GET /api/admin/jobs
func (h *JobHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// PostJobRequest is the body of POST /api/jobs/post
type PostJobRequest struct {
	CompanyID       int64           `json:"company_id" validate:"required,gt=0"`
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description" validate:"required"`
	Category        string          `json:"category" validate:"max=100"`
	Skills          []string        `json:"skills" validate:"required,min=1"`
	Location        string          `json:"location" validate:"required,max=255"`
	Budget          contracts.Money `json:"budget" validate:"gte=0"`
	ExperienceLevel string          `json:"experienceLevel" validate:"required,max=50"`
	Phone           string          `json:"phone" validate:"max=20"`
	Website         string          `json:"website" validate:"omitempty,max=255"`
	Deadline        string          `json:"deadline"`
}

// Post creates an open job
// POST /api/jobs/post
func (h *JobHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	deadline, err := parseDate(req.Deadline, "deadline")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := req.Category
	if category == "" {
		category = req.Skills[0]
	}

	job, err := h.store.Create(r.Context(), contracts.NewJob{
		CompanyID:       req.CompanyID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        category,
		Skills:          req.Skills,
		Location:        req.Location,
		Budget:          req.Budget.Ptr(),
		ExperienceLevel: req.ExperienceLevel,
		Phone:           req.Phone,
		Website:         req.Website,
		Deadline:        deadline,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to post job. Please try again.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "job": job})
}

// Delete removes a job
// DELETE /api/admin/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete job")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// matchResponse wraps matches the way the job board expects them
type matchResponse struct {
	Jobs      []matching.Match `json:"jobs"`
	Total     int              `json:"total"`
	MatchedAt time.Time        `json:"matchedAt"`
}

// Match scores open jobs against a contractor's search filters
// POST /api/jobs/match
func (h *JobHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req matching.Filters
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.store.Match(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to match jobs")
		return
	}

	respondJSON(w, http.StatusOK, matchResponse{
		Jobs:      matches,
		Total:     len(matches),
		MatchedAt: time.Now().UTC(),
	})
}
