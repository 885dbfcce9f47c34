// Package repotest provides an in-memory Store that satisfies every
// repository interface, for service and handler tests.
package repotest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/domain/repository"
)

// Store keeps rows in maps and emulates the store's constraints: the
// (user_id, url) unique index, owner scoping and cascading deletes.
type Store struct {
	mu       sync.Mutex
	users    map[string]model.User
	problems map[string]model.Problem
	attempts map[string]model.Attempt

	// FailNext, when set, is returned by the next repository call.
	FailNext error
}

var (
	_ repository.UserRepository    = (*Store)(nil)
	_ repository.ProblemRepository = (*Store)(nil)
	_ repository.AttemptRepository = (*Store)(nil)
	_ repository.Transactor        = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:    map[string]model.User{},
		problems: map[string]model.Problem{},
		attempts: map[string]model.Attempt{},
	}
}

func (s *Store) fail() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func (s *Store) EnsureExists(ctx context.Context, tx *sql.Tx, user *model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return false, err
	}
	if _, ok := s.users[user.ID]; ok {
		return false, nil
	}
	s.users[user.ID] = *user
	return true, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

// Users returns the number of stored users.
func (s *Store) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) urlTaken(userID string, url *string, exceptID string) bool {
	if url == nil {
		return false
	}
	for _, p := range s.problems {
		if p.UserID == userID && p.ID != exceptID && p.URL != nil && *p.URL == *url {
			return true
		}
	}
	return false
}

func cloneProblem(p model.Problem) model.Problem {
	p.Tags = append([]string{}, p.Tags...)
	return p
}

func (s *Store) CreateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	if _, ok := s.users[p.UserID]; !ok {
		return fmt.Errorf("repotest: user %q does not exist", p.UserID)
	}
	if s.urlTaken(p.UserID, p.URL, "") {
		return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
	}
	s.problems[p.ID] = cloneProblem(*p)
	return nil
}

func (s *Store) UpdateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	cur, ok := s.problems[p.ID]
	if !ok || cur.UserID != p.UserID {
		return common.ErrNotFound
	}
	if s.urlTaken(p.UserID, p.URL, p.ID) {
		return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
	}
	p.CreatedAt = cur.CreatedAt
	s.problems[p.ID] = cloneProblem(*p)
	return nil
}

func (s *Store) UpdateProblemURL(ctx context.Context, tx *sql.Tx, id, userID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	cur, ok := s.problems[id]
	if !ok || cur.UserID != userID {
		return common.ErrNotFound
	}
	if s.urlTaken(userID, &url, id) {
		return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
	}
	cur.URL = &url
	s.problems[id] = cur
	return nil
}

func (s *Store) FindProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) (*model.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}
	p, ok := s.problems[id]
	if !ok || p.UserID != userID {
		return nil, common.ErrNotFound
	}
	p = cloneProblem(p)
	return &p, nil
}

func (s *Store) FindProblemByURL(ctx context.Context, tx *sql.Tx, userID, url string) (*model.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.problems {
		if p.UserID == userID && p.URL != nil && *p.URL == url {
			p = cloneProblem(p)
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) ListProblemsByUser(ctx context.Context, tx *sql.Tx, userID string) ([]model.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := []model.Problem{}
	for _, p := range s.problems {
		if p.UserID == userID {
			out = append(out, cloneProblem(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CountProblemsByUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return 0, err
	}
	n := 0
	for _, p := range s.problems {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	p, ok := s.problems[id]
	if !ok || p.UserID != userID {
		return common.ErrNotFound
	}
	delete(s.problems, id)
	for aid, a := range s.attempts {
		if a.ProblemID == id {
			delete(s.attempts, aid)
		}
	}
	return nil
}

func (s *Store) CreateAttempt(ctx context.Context, tx *sql.Tx, a *model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	if _, ok := s.problems[a.ProblemID]; !ok {
		return errors.New("repotest: attempts.problem_id references a missing problem")
	}
	s.attempts[a.ID] = *a
	return nil
}

func (s *Store) ListAttemptsByProblem(ctx context.Context, problemID string) ([]model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := []model.Attempt{}
	for _, a := range s.attempts {
		if a.ProblemID == problemID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) FindAttempt(ctx context.Context, id, problemID, userID string) (*model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok || a.ProblemID != problemID || a.UserID != userID {
		return nil, common.ErrNotFound
	}
	return &a, nil
}

func (s *Store) DeleteAttempt(ctx context.Context, tx *sql.Tx, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	if _, ok := s.attempts[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.attempts, id)
	return nil
}

func (s *Store) ListAttemptSummariesByUser(ctx context.Context, userID string) ([]model.AttemptSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := []model.AttemptSummary{}
	for _, a := range s.attempts {
		p, ok := s.problems[a.ProblemID]
		if !ok || p.UserID != userID {
			continue
		}
		out = append(out, model.AttemptSummary{ID: a.ID, ProblemID: a.ProblemID, Status: a.Status, CreatedAt: a.CreatedAt})
	}
	return out, nil
}

// Attempts returns the number of stored attempts.
func (s *Store) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

// PutProblem stores p as is, bypassing the unique index. Used to seed rows
// that predate URL normalization.
func (s *Store) PutProblem(p model.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		s.users[p.UserID] = model.User{ID: p.UserID}
	}
	s.problems[p.ID] = cloneProblem(p)
}
