package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"

	"github.com/lib/pq"
)

// ProblemRepository stores problems. Every read and write that names a
// problem id is scoped by owner, so another user's row looks absent.
type ProblemRepository interface {
	CreateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	UpdateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	UpdateProblemURL(ctx context.Context, tx *sql.Tx, id, userID, url string) error
	FindProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) (*model.Problem, error)
	FindProblemByURL(ctx context.Context, tx *sql.Tx, userID, url string) (*model.Problem, error)
	ListProblemsByUser(ctx context.Context, tx *sql.Tx, userID string) ([]model.Problem, error)
	CountProblemsByUser(ctx context.Context, userID string) (int, error)
	DeleteProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) error
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

// tags travel as the text form of a text[] so both pgx and lib/pq agree on
// the encoding.
const problemColumns = `id, user_id, title, slug, description, url, platform, difficulty, tags::text, created_at, updated_at`

func scanProblem(row interface{ Scan(...interface{}) error }, p *model.Problem) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Slug, &p.Description, &p.URL,
		&p.Platform, &p.Difficulty, pq.Array(&p.Tags), &p.CreatedAt, &p.UpdatedAt,
	)
}

func tagsArg(tags []string) interface{} {
	if tags == nil {
		tags = []string{}
	}
	return pq.Array(tags)
}

func (r *pgProblemRepository) CreateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	query := `INSERT INTO problems (id, user_id, title, slug, description, url, platform, difficulty, tags, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CAST($9 AS TEXT)::TEXT[], $10, $11)`

	_, err := pick(r.db, tx).ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, p.Slug, p.Description, p.URL, p.Platform, p.Difficulty, tagsArg(p.Tags), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.CreateProblem: %w", err)
	}
	return nil
}

// UpdateProblem overwrites the mutable fields of the row matching p.ID and
// p.UserID and refreshes p from the stored row.
func (r *pgProblemRepository) UpdateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	query := `UPDATE problems SET
                title = $1, slug = $2, description = $3, url = $4, platform = $5,
                difficulty = $6, tags = CAST($7 AS TEXT)::TEXT[], updated_at = $8
              WHERE id = $9 AND user_id = $10
              RETURNING ` + problemColumns

	row := pick(r.db, tx).QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Description, p.URL, p.Platform, p.Difficulty, tagsArg(p.Tags), p.UpdatedAt, p.ID, p.UserID)
	if err := scanProblem(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.UpdateProblem: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) UpdateProblemURL(ctx context.Context, tx *sql.Tx, id, userID, url string) error {
	query := `UPDATE problems SET url = $1 WHERE id = $2 AND user_id = $3`
	res, err := pick(r.db, tx).ExecContext(ctx, query, url, id, userID)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("problem with this url already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.UpdateProblemURL: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProblemRepository) FindProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1 AND user_id = $2`

	problem := &model.Problem{}
	if err := scanProblem(pick(r.db, tx).QueryRowContext(ctx, query, id, userID), problem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindProblemForUser: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) FindProblemByURL(ctx context.Context, tx *sql.Tx, userID, url string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE user_id = $1 AND url = $2`

	problem := &model.Problem{}
	if err := scanProblem(pick(r.db, tx).QueryRowContext(ctx, query, userID, url), problem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindProblemByURL: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) ListProblemsByUser(ctx context.Context, tx *sql.Tx, userID string) ([]model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := pick(r.db, tx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblemsByUser query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := scanProblem(rows, &p); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListProblemsByUser scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblemsByUser rows: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) CountProblemsByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("pgProblemRepository.CountProblemsByUser: %w", err)
	}
	return total, nil
}

// DeleteProblemForUser removes the problem; its attempts go with it through
// the foreign key cascade.
func (r *pgProblemRepository) DeleteProblemForUser(ctx context.Context, tx *sql.Tx, id, userID string) error {
	res, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM problems WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.DeleteProblemForUser: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProblemRepository.DeleteProblemForUser: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
