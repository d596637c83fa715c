package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/buildbid/backend/internal/bids"
	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// Recommender ranks bids for a stored project or for an ad hoc candidate list
type Recommender interface {
	Recommend(ctx context.Context, projectID int64) (*bids.ProjectRanking, error)
	Rank(budgetReference float64, candidates []contracts.BidSignal) contracts.Ranking
}

// RecommendationHandler exposes the bid scorer
// ⭐ SSOT: 입찰 추천 API 핸들러는 이 구조체에서만
type RecommendationHandler struct {
	recommender Recommender
	logger      *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommender Recommender, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender, logger: log}
}

// ForProject ranks a project's pending bids
// GET /api/company/projects/{id}/recommendations
func (h *RecommendationHandler) ForProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranking, err := h.recommender.Recommend(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to rank bids")
		return
	}
	respondJSON(w, http.StatusOK, ranking)
}

// RankRequest is the body of POST /api/rank
type RankRequest struct {
	BudgetReference float64               `json:"budgetReference"`
	Candidates      []contracts.BidSignal `json:"candidates" validate:"max=1000,unique=BidID"`
}

// Rank scores an arbitrary candidate list without touching storage.
// Invalid amounts come back under "excluded" rather than failing the request.
// POST /api/rank
func (h *RecommendationHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.recommender.Rank(req.BudgetReference, req.Candidates))
}
