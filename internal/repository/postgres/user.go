package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.Credential, error) {
	query := `SELECT id, username, password_hash, salt, kdf, created_at, updated_at
			  FROM users WHERE username = $1`

	var c model.Credential
	err := r.db.QueryRow(ctx, query, username).Scan(
		&c.ID, &c.Username, &c.PasswordHash, &c.Salt, &c.KDF, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return c, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Credential, error) {
	query := `SELECT id, username, password_hash, salt, kdf, created_at, updated_at
			  FROM users WHERE id = $1`

	var c model.Credential
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Username, &c.PasswordHash, &c.Salt, &c.KDF, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return c, nil
}

// Create inserts a user. A taken username yields model.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, c model.Credential) (model.Credential, error) {
	query := `INSERT INTO users (id, username, password_hash, salt, kdf, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, username, password_hash, salt, kdf, created_at, updated_at`

	var saved model.Credential
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Username, c.PasswordHash, c.Salt, c.KDF, c.CreatedAt, c.UpdatedAt,
	).Scan(
		&saved.ID, &saved.Username, &saved.PasswordHash, &saved.Salt, &saved.KDF,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Credential{}, model.ErrConflict
		}
		return model.Credential{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}
