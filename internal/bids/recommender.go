package bids

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/scoring"
	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/metrics"
	"github.com/wonny/buildbid/backend/pkg/redis"
)

// BidLister is the bid read side the recommender needs
type BidLister interface {
	ListByProject(ctx context.Context, projectID int64) ([]contracts.Bid, error)
}

// ProjectGetter loads the project whose budget anchors the ranking
type ProjectGetter interface {
	Get(ctx context.Context, id int64) (*contracts.Project, error)
}

// maxSignalLookups bounds concurrent contractor lookups per ranking
const maxSignalLookups = 8

// ProjectRanking is a Ranking plus the inputs it was computed from
type ProjectRanking struct {
	ProjectID       int64   `json:"projectId"`
	BudgetReference float64 `json:"budgetReference"`
	contracts.Ranking
	Cached bool `json:"cached"`
}

// Recommender ranks a project's pending bids and memoizes the result
// ⭐ SSOT: 프로젝트 입찰 추천은 여기서만
type Recommender struct {
	bids     BidLister
	projects ProjectGetter
	source   contracts.ContractorSource
	scorer   *scoring.Scorer
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewRecommender creates a recommender. A nil cache or zero ttl disables memoization.
func NewRecommender(
	bids BidLister,
	projects ProjectGetter,
	source contracts.ContractorSource,
	scorer *scoring.Scorer,
	cache *redis.Cache,
	ttl time.Duration,
	log *logger.Logger,
) *Recommender {
	return &Recommender{
		bids:     bids,
		projects: projects,
		source:   source,
		scorer:   scorer,
		cache:    cache,
		ttl:      ttl,
		logger:   log,
	}
}

// Recommend returns the ranking of a project's pending bids.
//
// The cache key covers the budget, the pending bids and the scoring config but
// not contractor signals, so a cached ranking may carry signals up to ttl old.
func (r *Recommender) Recommend(ctx context.Context, projectID int64) (*ProjectRanking, error) {
	project, err := r.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bids, err := r.bids.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	budget := project.BudgetReference()
	result := &ProjectRanking{ProjectID: projectID, BudgetReference: budget}

	fingerprint, err := scoring.Fingerprint(budget, scoring.EligibleSignals(bids, nil), r.scorer.ConfigHash())
	if err != nil {
		return nil, err
	}
	key := redis.RecommendationKey(projectID, fingerprint)

	if r.cacheEnabled() {
		var cached contracts.Ranking
		hit, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.logger.WithError(err).WithField("project_id", projectID).Warn("Recommendation cache read failed")
		} else if hit {
			metrics.RankingsTotal.WithLabelValues("cache").Inc()
			result.Ranking = cached
			result.Cached = true
			return result, nil
		}
	}

	signals := r.lookupSignals(ctx, bids)
	result.Ranking = r.scorer.Rank(budget, scoring.EligibleSignals(bids, signals))

	metrics.RankingsTotal.WithLabelValues("computed").Inc()
	metrics.ExcludedCandidatesTotal.Add(float64(len(result.Excluded)))
	if top := result.Top(); top != nil {
		metrics.TopScoreHistogram.Observe(top.Score)
	}

	if r.cacheEnabled() {
		if err := r.cache.Set(ctx, key, result.Ranking, r.ttl); err != nil {
			r.logger.WithError(err).WithField("project_id", projectID).Warn("Recommendation cache write failed")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"candidates": len(result.Recommendations),
		"excluded":   len(result.Excluded),
	}).Debug("Bids ranked")

	return result, nil
}

// Invalidate drops every cached ranking of a project
func (r *Recommender) Invalidate(ctx context.Context, projectID int64) {
	if !r.cacheEnabled() {
		return
	}
	if _, err := r.cache.DeletePattern(ctx, redis.ProjectRecommendationsPattern(projectID)); err != nil {
		r.logger.WithError(err).WithField("project_id", projectID).Warn("Recommendation cache invalidation failed")
	}
}

func (r *Recommender) cacheEnabled() bool {
	return r.cache != nil && r.ttl > 0
}

// lookupSignals fetches signals for the contractors behind pending bids.
// A failed lookup is logged and left out, so the scorer falls back to defaults.
func (r *Recommender) lookupSignals(ctx context.Context, bids []contracts.Bid) map[int64]*contracts.ContractorSignals {
	ids := make([]int64, 0, len(bids))
	seen := make(map[int64]bool, len(bids))
	for _, b := range bids {
		if b.Status != contracts.BidPending || seen[b.ContractorID] {
			continue
		}
		seen[b.ContractorID] = true
		ids = append(ids, b.ContractorID)
	}

	var mu sync.Mutex
	signals := make(map[int64]*contracts.ContractorSignals, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSignalLookups)

	for _, id := range ids {
		g.Go(func() error {
			s, err := r.source.Signals(gctx, id)
			if err != nil {
				metrics.SignalFallbacksTotal.Inc()
				log := r.logger.WithField("contractor_id", id)
				if errors.Is(err, contracts.ErrNotFound) {
					log.Debug("Contractor signals not found, using defaults")
				} else {
					log.WithError(err).Warn("Contractor lookup failed, using defaults")
				}
				return nil
			}

			mu.Lock()
			signals[id] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return signals
}

// Rank is the stateless entry point used by POST /api/rank and the CLI
func (r *Recommender) Rank(budgetReference float64, candidates []contracts.BidSignal) contracts.Ranking {
	ranking := r.scorer.Rank(budgetReference, candidates)
	metrics.RankingsTotal.WithLabelValues("stateless").Inc()
	return ranking
}

