package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) interfaces.UserRepository {
	return &userRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx Queryable) interfaces.UserRepository {
	return &userRepository{q: tx}
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, username, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user entities.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, username string, isAdmin bool) (*entities.User, error) {
	query := `
		INSERT INTO users (username, is_admin)
		VALUES ($1, $2)
		RETURNING id, username, is_admin, created_at, updated_at`

	var user entities.User
	err := r.q.QueryRow(ctx, query, username, isAdmin).Scan(
		&user.ID,
		&user.Username,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
