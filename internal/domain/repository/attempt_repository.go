package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
)

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, tx *sql.Tx, attempt *model.Attempt) error
	ListAttemptsByProblem(ctx context.Context, problemID string) ([]model.Attempt, error)
	// FindAttempt matches on all three ids.
	FindAttempt(ctx context.Context, id, problemID, userID string) (*model.Attempt, error)
	DeleteAttempt(ctx context.Context, tx *sql.Tx, id string) error
	// ListAttemptSummariesByUser returns every attempt on a problem the user
	// owns, in no particular order.
	ListAttemptSummariesByUser(ctx context.Context, userID string) ([]model.AttemptSummary, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

const attemptColumns = `id, problem_id, user_id, status, time_taken, notes, solution_code, created_at, updated_at`

func scanAttempt(row interface{ Scan(...interface{}) error }, a *model.Attempt) error {
	return row.Scan(&a.ID, &a.ProblemID, &a.UserID, &a.Status, &a.TimeTaken, &a.Notes, &a.SolutionCode, &a.CreatedAt, &a.UpdatedAt)
}

func (r *pgAttemptRepository) CreateAttempt(ctx context.Context, tx *sql.Tx, a *model.Attempt) error {
	query := `INSERT INTO attempts (` + attemptColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := pick(r.db, tx).ExecContext(ctx, query,
		a.ID, a.ProblemID, a.UserID, a.Status, a.TimeTaken, a.Notes, a.SolutionCode, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.CreateAttempt: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) ListAttemptsByProblem(ctx context.Context, problemID string) ([]model.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE problem_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAttemptsByProblem query: %w", err)
	}
	defer rows.Close()

	attempts := []model.Attempt{}
	for rows.Next() {
		var a model.Attempt
		if err := scanAttempt(rows, &a); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListAttemptsByProblem scan: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAttemptsByProblem rows: %w", err)
	}
	return attempts, nil
}

func (r *pgAttemptRepository) FindAttempt(ctx context.Context, id, problemID, userID string) (*model.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE id = $1 AND problem_id = $2 AND user_id = $3`
	a := &model.Attempt{}
	if err := scanAttempt(r.db.QueryRowContext(ctx, query, id, problemID, userID), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAttemptRepository.FindAttempt: %w", err)
	}
	return a, nil
}

func (r *pgAttemptRepository) DeleteAttempt(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM attempts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.DeleteAttempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgAttemptRepository) ListAttemptSummariesByUser(ctx context.Context, userID string) ([]model.AttemptSummary, error) {
	query := `SELECT a.id, a.problem_id, a.status, a.created_at
	          FROM attempts a
	          JOIN problems p ON a.problem_id = p.id
	          WHERE p.user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAttemptSummariesByUser query: %w", err)
	}
	defer rows.Close()

	summaries := []model.AttemptSummary{}
	for rows.Next() {
		var s model.AttemptSummary
		if err := rows.Scan(&s.ID, &s.ProblemID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListAttemptSummariesByUser scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAttemptSummariesByUser rows: %w", err)
	}
	return summaries, nil
}
