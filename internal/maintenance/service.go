package maintenance

import (
	"context"
	"time"

	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/redis"
)

// cacheTTL bounds how long other API instances may serve a stale flag
const cacheTTL = 15 * time.Second

// Store persists the maintenance flag
type Store interface {
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
}

// Service answers "is the platform in maintenance?" for every API request
// ⭐ SSOT: 점검 모드 판단은 여기서만
type Service struct {
	store  Store
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService creates a maintenance service. cache may be nil.
func NewService(store Store, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{store: store, cache: cache, logger: log}
}

// Active reports the flag. Any read failure counts as not in maintenance.
func (s *Service) Active(ctx context.Context) bool {
	if s.cache != nil {
		var cached bool
		hit, err := s.cache.Get(ctx, redis.MaintenanceKey(), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Maintenance cache read failed")
		} else if hit {
			return cached
		}
	}

	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read maintenance flag, assuming inactive")
		return false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.MaintenanceKey(), enabled, cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Maintenance cache write failed")
		}
	}
	return enabled
}

// SetActive stores the flag and refreshes the cache
func (s *Service) SetActive(ctx context.Context, active bool) error {
	if err := s.store.SetEnabled(ctx, active); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.MaintenanceKey(), active, cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Maintenance cache write failed")
		}
	}

	s.logger.WithField("active", active).Info("Maintenance mode changed")
	return nil
}
