package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
)

type UserRepository interface {
	// EnsureExists inserts the user unless a row with the same id exists and
	// reports whether a row was created.
	EnsureExists(ctx context.Context, tx *sql.Tx, user *model.User) (bool, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) EnsureExists(ctx context.Context, tx *sql.Tx, user *model.User) (bool, error) {
	query := `INSERT INTO users (id, email, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (id) DO NOTHING`
	res, err := pick(r.db, tx).ExecContext(ctx, query, user.ID, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.EnsureExists: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.EnsureExists: %w", err)
	}
	return n == 1, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, created_at, updated_at FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}
