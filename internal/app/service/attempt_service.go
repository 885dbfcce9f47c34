package service

import (
	"context"
	"errors"
	"time"

	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/domain/repository"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/logging"

	"github.com/google/uuid"
)

var errAttemptNotFound = common.NotFound("Attempt not found")

type AttemptService struct {
	attemptRepo repository.AttemptRepository
	problemRepo repository.ProblemRepository
	statsCache  cache.StatsCache
	log         logging.Logger
	now         func() time.Time
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	problemRepo repository.ProblemRepository,
	statsCache cache.StatsCache,
	log logging.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		problemRepo: problemRepo,
		statsCache:  statsCache,
		log:         log,
		now:         time.Now,
	}
}

type CreateAttemptRequest struct {
	Status       string `json:"status"`
	TimeTaken    *int   `json:"timeTaken"` // minutes
	Notes        string `json:"notes"`
	SolutionCode string `json:"solutionCode"`
}

// ensureOwned fails with "Problem not found" unless the user owns problemID.
func (s *AttemptService) ensureOwned(ctx context.Context, userID, problemID string) error {
	if !validID(problemID) {
		return errProblemNotFound
	}
	if _, err := s.problemRepo.FindProblemForUser(ctx, nil, problemID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errProblemNotFound
		}
		return common.Errorf("failed to verify problem %s: %w", problemID, err)
	}
	return nil
}

func (s *AttemptService) CreateAttempt(ctx context.Context, userID, problemID string, req CreateAttemptRequest) (*model.Attempt, error) {
	if err := s.ensureOwned(ctx, userID, problemID); err != nil {
		return nil, err
	}

	if req.Status == "" {
		return nil, common.Validation("Status is required")
	}
	status := model.AttemptStatus(req.Status)
	if !status.Valid() {
		return nil, common.Validation("Invalid status")
	}

	// Zero minutes means "not recorded".
	var timeTaken *int
	if req.TimeTaken != nil {
		if *req.TimeTaken < 0 {
			return nil, common.Validation("Time taken must not be negative")
		}
		if *req.TimeTaken > 0 {
			minutes := *req.TimeTaken
			timeTaken = &minutes
		}
	}

	now := s.now()
	attempt := &model.Attempt{
		ID:           uuid.NewString(),
		ProblemID:    problemID,
		UserID:       userID,
		Status:       status,
		TimeTaken:    timeTaken,
		Notes:        optional(req.Notes),
		SolutionCode: optional(req.SolutionCode),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.attemptRepo.CreateAttempt(ctx, nil, attempt); err != nil {
		return nil, common.Errorf("failed to record attempt: %w", err)
	}

	s.statsCache.Invalidate(ctx, userID)
	s.log.Debugf("attempt %s (%s) recorded on problem %s", attempt.ID, status, problemID)
	return attempt, nil
}

// ListAttempts returns the problem's attempts, newest first.
func (s *AttemptService) ListAttempts(ctx context.Context, userID, problemID string) ([]model.Attempt, error) {
	if err := s.ensureOwned(ctx, userID, problemID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListAttemptsByProblem(ctx, problemID)
	if err != nil {
		return nil, common.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *AttemptService) DeleteAttempt(ctx context.Context, userID, problemID, attemptID string) error {
	if err := s.ensureOwned(ctx, userID, problemID); err != nil {
		return err
	}
	if !validID(attemptID) {
		return errAttemptNotFound
	}

	attempt, err := s.attemptRepo.FindAttempt(ctx, attemptID, problemID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errAttemptNotFound
		}
		return common.Errorf("failed to fetch attempt %s: %w", attemptID, err)
	}
	if err := s.attemptRepo.DeleteAttempt(ctx, nil, attempt.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errAttemptNotFound
		}
		return common.Errorf("failed to delete attempt %s: %w", attemptID, err)
	}

	s.statsCache.Invalidate(ctx, userID)
	return nil
}
