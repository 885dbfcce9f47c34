package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"practice_tracker/internal/common"
	"practice_tracker/internal/common/normalize"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/domain/repository"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/logging"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const DuplicateURLMessage = "You already have a problem with this URL"

// ConflictError reports that the caller already tracks a problem with the
// same normalized URL. Existing is that problem.
type ConflictError struct {
	Existing *model.Problem
}

func (e *ConflictError) Error() string { return DuplicateURLMessage }

func (e *ConflictError) Unwrap() error { return common.ErrConflict }

var errProblemNotFound = common.NotFound("Problem not found")

type ProblemService struct {
	problemRepo repository.ProblemRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
	statsCache  cache.StatsCache
	log         logging.Logger
	now         func() time.Time
}

func NewProblemService(
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	statsCache cache.StatsCache,
	log logging.Logger,
) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		userRepo:    userRepo,
		tx:          tx,
		statsCache:  statsCache,
		log:         log,
		now:         time.Now,
	}
}

type CreateProblemRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Tags        string `json:"tags"` // comma separated
}

type UpdateProblemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Platform    string `json:"platform"`
	Difficulty  string `json:"difficulty"`
	Tags        string `json:"tags"` // comma separated
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// validID keeps malformed ids away from the uuid columns; they can never
// match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// findByNormalizedURL scans the user's problems comparing normalized forms,
// so rows stored before normalization still count as duplicates.
func (s *ProblemService) findByNormalizedURL(ctx context.Context, tx *sql.Tx, userID, normalized, exceptID string) (*model.Problem, error) {
	problems, err := s.problemRepo.ListProblemsByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	for i := range problems {
		p := &problems[i]
		if p.ID == exceptID || p.URL == nil {
			continue
		}
		if normalize.URL(*p.URL) == normalized {
			return p, nil
		}
	}
	return nil, nil
}

// conflictFromIndex turns a unique index violation into a ConflictError
// carrying the row that won the race. If that row cannot be loaded the
// result is an internal error; neither sentinel is wrapped, so a write
// never answers 404.
func (s *ProblemService) conflictFromIndex(ctx context.Context, userID, normalized string, cause error) error {
	existing, err := s.problemRepo.FindProblemByURL(ctx, nil, userID, normalized)
	if err != nil {
		return common.Errorf("lookup after conflict (%v): %v", cause, err)
	}
	return &ConflictError{Existing: existing}
}

func (s *ProblemService) CreateProblem(ctx context.Context, userID string, req CreateProblemRequest) (*model.Problem, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, common.Validation("URL is required")
	}
	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		difficulty = model.ProblemDifficulty(req.Difficulty)
		if !difficulty.Valid() {
			return nil, common.Validation("Invalid difficulty")
		}
	}

	normalizedURL := normalize.URL(strings.TrimSpace(req.URL))
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = normalize.Title(normalizedURL)
	}

	now := s.now()
	problem := &model.Problem{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Slug:        slug.Make(title),
		Description: optional(req.Description),
		URL:         &normalizedURL,
		Platform:    model.PlatformUnknown,
		Difficulty:  difficulty,
		Tags:        normalize.Tags(req.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.findByNormalizedURL(ctx, tx, userID, normalizedURL, "")
		if err != nil {
			return err
		}
		if existing != nil {
			return &ConflictError{Existing: existing}
		}

		created, err := s.userRepo.EnsureExists(ctx, tx, &model.User{ID: userID, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return err
		}
		if created {
			s.log.Infof("created user record for %s", userID)
		}
		return s.problemRepo.CreateProblem(ctx, tx, problem)
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		if errors.Is(err, common.ErrConflict) {
			return nil, s.conflictFromIndex(ctx, userID, normalizedURL, err)
		}
		return nil, common.Errorf("failed to create problem: %w", err)
	}

	s.statsCache.Invalidate(ctx, userID)
	s.log.Debugf("problem %s created for %s", problem.ID, userID)
	return problem, nil
}

// UpdateProblem replaces the editable fields of a problem. The URL is
// normalized and must stay unique among the caller's problems.
func (s *ProblemService) UpdateProblem(ctx context.Context, userID, id string, req UpdateProblemRequest) (*model.Problem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Platform) == "" || req.Difficulty == "" {
		return nil, common.Validation("Missing required fields")
	}
	difficulty := model.ProblemDifficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, common.Validation("Invalid difficulty")
	}
	if !validID(id) {
		return nil, errProblemNotFound
	}

	var url *string
	if strings.TrimSpace(req.URL) != "" {
		normalized := normalize.URL(strings.TrimSpace(req.URL))
		url = &normalized
	}

	problem := &model.Problem{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Slug:        slug.Make(title),
		Description: optional(req.Description),
		URL:         url,
		Platform:    strings.TrimSpace(req.Platform),
		Difficulty:  difficulty,
		Tags:        normalize.Tags(req.Tags),
		UpdatedAt:   s.now(),
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if url != nil {
			existing, err := s.findByNormalizedURL(ctx, tx, userID, *url, id)
			if err != nil {
				return err
			}
			if existing != nil {
				return &ConflictError{Existing: existing}
			}
		}
		return s.problemRepo.UpdateProblem(ctx, tx, problem)
	})
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			return nil, err
		case errors.Is(err, common.ErrNotFound):
			return nil, errProblemNotFound
		case errors.Is(err, common.ErrConflict) && url != nil:
			return nil, s.conflictFromIndex(ctx, userID, *url, err)
		}
		return nil, common.Errorf("failed to update problem %s: %w", id, err)
	}

	s.statsCache.Invalidate(ctx, userID)
	return problem, nil
}

func (s *ProblemService) GetProblem(ctx context.Context, userID, id string) (*model.Problem, error) {
	if !validID(id) {
		return nil, errProblemNotFound
	}
	problem, err := s.problemRepo.FindProblemForUser(ctx, nil, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errProblemNotFound
		}
		return nil, common.Errorf("failed to fetch problem %s: %w", id, err)
	}
	return problem, nil
}

// DeleteProblem removes the problem and, by cascade, its attempts.
func (s *ProblemService) DeleteProblem(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return errProblemNotFound
	}
	if err := s.problemRepo.DeleteProblemForUser(ctx, nil, id, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errProblemNotFound
		}
		return common.Errorf("failed to delete problem %s: %w", id, err)
	}
	s.statsCache.Invalidate(ctx, userID)
	return nil
}

func (s *ProblemService) ListProblems(ctx context.Context, userID string) ([]model.Problem, error) {
	problems, err := s.problemRepo.ListProblemsByUser(ctx, nil, userID)
	if err != nil {
		return nil, common.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// NormalizeURLs rewrites every stored URL of the user into normalized form
// and returns how many rows changed. A row whose normalized URL is already
// taken by another of the user's problems is left alone.
func (s *ProblemService) NormalizeURLs(ctx context.Context, userID string) (int, error) {
	problems, err := s.problemRepo.ListProblemsByUser(ctx, nil, userID)
	if err != nil {
		return 0, common.Errorf("failed to list problems: %w", err)
	}

	updated := 0
	for _, p := range problems {
		if p.URL == nil {
			continue
		}
		normalized := normalize.URL(*p.URL)
		if normalized == *p.URL {
			continue
		}
		err := s.problemRepo.UpdateProblemURL(ctx, nil, p.ID, userID, normalized)
		switch {
		case err == nil:
			updated++
		case errors.Is(err, common.ErrConflict):
			s.log.Warningf("skipping url normalization of problem %s: %s is taken", p.ID, normalized)
		case errors.Is(err, common.ErrNotFound):
			// Deleted concurrently.
		default:
			return updated, common.Errorf("failed to normalize url of problem %s: %w", p.ID, err)
		}
	}
	s.log.Infof("normalized %d of %d problem urls for %s", updated, len(problems), userID)
	return updated, nil
}
