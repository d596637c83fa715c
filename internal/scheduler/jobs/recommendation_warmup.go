package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/buildbid/backend/internal/bids"
	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// OpenProjects lists projects still taking bids
type OpenProjects interface {
	ListOpenWithPendingBids(ctx context.Context) ([]contracts.Project, error)
}

// ProjectRecommender ranks the pending bids of one project
type ProjectRecommender interface {
	Recommend(ctx context.Context, projectID int64) (*bids.ProjectRanking, error)
}

// RecommendationWarmupJob precomputes rankings so the company dashboard reads from cache
// Schedule: every 15 minutes
type RecommendationWarmupJob struct {
	projects    OpenProjects
	recommender ProjectRecommender
	logger      *logger.Logger
}

// NewRecommendationWarmupJob creates a new warmup job
func NewRecommendationWarmupJob(projects OpenProjects, recommender ProjectRecommender, log *logger.Logger) *RecommendationWarmupJob {
	return &RecommendationWarmupJob{
		projects:    projects,
		recommender: recommender,
		logger:      log,
	}
}

// Name returns the job name
func (j *RecommendationWarmupJob) Name() string {
	return "recommendation_warmup"
}

// Schedule returns the cron schedule (every 15 minutes)
func (j *RecommendationWarmupJob) Schedule() string {
	return "0 */15 * * * *"
}

// Run ranks every open project with pending bids.
// One project failing does not stop the others; the run fails only if all did.
func (j *RecommendationWarmupJob) Run(ctx context.Context) error {
	projects, err := j.projects.ListOpenWithPendingBids(ctx)
	if err != nil {
		return fmt.Errorf("list open projects: %w", err)
	}

	var warmed, cached, failed int
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return err
		}

		ranking, err := j.recommender.Recommend(ctx, p.ID)
		if err != nil {
			failed++
			j.logger.WithError(err).WithField("project_id", p.ID).Warn("Recommendation warmup failed")
			continue
		}
		if ranking.Cached {
			cached++
		} else {
			warmed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"projects": len(projects),
		"warmed":   warmed,
		"cached":   cached,
		"failed":   failed,
	}).Info("Recommendation warmup finished")

	if len(projects) > 0 && failed == len(projects) {
		return fmt.Errorf("warmup failed for all %d projects", failed)
	}
	return nil
}
