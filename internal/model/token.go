package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Issue(principal Principal) (string, error)
	Verify(token string) (TokenClaims, error)
}

// TokenClaims is what a verified token proves.
type TokenClaims struct {
	SubjectID uuid.UUID
	JTI       string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// RevocationStore persists revoked token identifiers.
type RevocationStore interface {
	Revoke(ctx context.Context, token RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevokedToken is a token that must no longer be accepted.
type RevokedToken struct {
	JTI       string
	UserID    uuid.UUID
	ExpiresAt *time.Time
	RevokedAt time.Time
}
