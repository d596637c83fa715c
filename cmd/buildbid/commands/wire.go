package commands

import (
	"fmt"

	"github.com/wonny/buildbid/backend/internal/bids"
	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/contractors"
	"github.com/wonny/buildbid/backend/internal/external/directory"
	"github.com/wonny/buildbid/backend/internal/jobs"
	"github.com/wonny/buildbid/backend/internal/maintenance"
	"github.com/wonny/buildbid/backend/internal/projects"
	"github.com/wonny/buildbid/backend/internal/reports"
	"github.com/wonny/buildbid/backend/internal/scheduler"
	schedjobs "github.com/wonny/buildbid/backend/internal/scheduler/jobs"
	"github.com/wonny/buildbid/backend/internal/scoring"
	"github.com/wonny/buildbid/backend/internal/users"
	"github.com/wonny/buildbid/backend/pkg/config"
	"github.com/wonny/buildbid/backend/pkg/database"
	"github.com/wonny/buildbid/backend/pkg/httputil"
	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/redis"
)

// directoryRPS paces this process's calls to the remote contractor directory
const (
	directoryRPS   = 20
	directoryBurst = 5
)

// app holds every long-lived dependency a command needs
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	scorer      *scoring.Scorer
	users       *users.Repository
	projects    *projects.Repository
	bids        *bids.Repository
	contractors *contractors.Repository
	jobs        *jobs.Repository
	reports     *reports.Repository

	auth        *users.Service
	recommender *bids.Recommender
	bidService  *bids.Service
	maintenance *maintenance.Service
}

// loadConfig loads the env config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp connects to Postgres and Redis and builds repositories and services
func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	scoringCfg, err := scoring.LoadOrDefault(cfg.Scoring.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	scorer, err := scoring.NewScorer(*scoringCfg)
	if err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rc, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	a := &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		redis:       rc,
		scorer:      scorer,
		users:       users.NewRepository(db.Pool),
		projects:    projects.NewRepository(db.Pool),
		bids:        bids.NewRepository(db.Pool),
		contractors: contractors.NewRepository(db.Pool),
		jobs:        jobs.NewRepository(db.Pool),
		reports:     reports.NewRepository(db.Pool),
	}

	cache := redis.NewCache(rc, redis.KeyPrefix)

	limiter := users.NewLoginLimiter(rc, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	a.auth = users.NewService(a.users, limiter, cfg.Auth.BcryptCost, log)

	a.recommender = bids.NewRecommender(a.bids, a.projects, a.contractorSource(), scorer, cache, cfg.Scoring.CacheTTL, log)
	a.bidService = bids.NewService(a.bids, a.recommender, log)
	a.maintenance = maintenance.NewService(maintenance.NewRepository(db.Pool), cache, log)

	log.WithFields(map[string]interface{}{
		"redis":             rc.Enabled(),
		"contractor_source": cfg.Directory.Source,
		"scoring_config":    scorer.ConfigHash()[:12],
		"cache_ttl":         cfg.Scoring.CacheTTL.String(),
	}).Info("Dependencies initialized")

	return a, nil
}

// contractorSource picks where scoring signals come from
func (a *app) contractorSource() contracts.ContractorSource {
	if a.cfg.Directory.Source != config.SourceRemote {
		return a.contractors
	}

	client := httputil.New(a.log, a.cfg.Directory.Timeout).
		WithPacing(directoryRPS, directoryBurst).
		WithRateLimiter(redis.NewRateLimiter(a.redis, redis.KeyPrefix), redis.DirectoryRateLimit)

	return directory.NewClient(client, a.cfg.Directory.BaseURL, a.log)
}

// newScheduler registers the background jobs
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	for _, job := range []scheduler.Job{
		schedjobs.NewReportSnapshotJob(a.reports, a.log),
		schedjobs.NewRecommendationWarmupJob(a.projects, a.recommender, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

// Close releases the database and Redis connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	a.db.Close()
}
