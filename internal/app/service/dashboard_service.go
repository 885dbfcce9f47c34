package service

import (
	"context"
	"time"

	"practice_tracker/internal/app/stats"
	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/domain/repository"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/logging"
)

type DashboardService struct {
	problemRepo repository.ProblemRepository
	attemptRepo repository.AttemptRepository
	statsCache  cache.StatsCache
	log         logging.Logger
	now         func() time.Time
}

func NewDashboardService(
	problemRepo repository.ProblemRepository,
	attemptRepo repository.AttemptRepository,
	statsCache cache.StatsCache,
	log logging.Logger,
) *DashboardService {
	return &DashboardService{
		problemRepo: problemRepo,
		attemptRepo: attemptRepo,
		statsCache:  statsCache,
		log:         log,
		now:         time.Now,
	}
}

// GetStats serves the cached dashboard when present and otherwise computes
// it from the store. The result is cached only if no write invalidated the
// user while it was being computed.
func (s *DashboardService) GetStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	if cached, ok := s.statsCache.Get(ctx, userID); ok {
		return cached, nil
	}
	version := s.statsCache.Version(ctx, userID)

	total, err := s.problemRepo.CountProblemsByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to count problems: %w", err)
	}
	attempts, err := s.attemptRepo.ListAttemptSummariesByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to load attempts: %w", err)
	}

	result := stats.Compute(total, attempts, s.now())
	s.statsCache.Set(ctx, userID, version, result)
	s.log.Debugf("dashboard for %s: %d problems, %d attempts", userID, total, len(attempts))
	return &result, nil
}
