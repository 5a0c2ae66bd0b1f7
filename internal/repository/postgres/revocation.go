package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

// RevocationRepository keeps the deny-list of logged-out tokens.
type RevocationRepository struct {
	db DB
}

func NewRevocationRepository(db DB) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Revoke records token. Revoking the same jti twice is not an error.
func (r *RevocationRepository) Revoke(ctx context.Context, token model.RevokedToken) error {
	const query = `
        INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (jti) DO NOTHING
    `

	if _, err := r.db.Exec(ctx, query, token.JTI, token.UserID, token.ExpiresAt, token.RevokedAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

	var revoked bool
	if err := r.db.QueryRow(ctx, query, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

// PurgeExpired deletes entries whose tokens can no longer verify anyway.
func (r *RevocationRepository) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at IS NOT NULL AND expires_at < NOW()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
