package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for credentials.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (Credential, error)
	Create(ctx context.Context, credential Credential) (Credential, error)
}

// Credential represents a stored user with authentication material.
type Credential struct {
	ID           uuid.UUID
	Username     string
	PasswordHash []byte
	Salt         []byte
	KDF          KDFParams
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the public view of the credential.
func (c Credential) Principal() Principal {
	return Principal{ID: c.ID, Username: c.Username}
}

// Principal is an authenticated identity carried in tokens and request contexts.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// KDFParams contains argon2id cost parameters.
type KDFParams struct {
	Time   uint32 `json:"time"`
	MemKiB uint32 `json:"mem_kib"`
	Par    uint8  `json:"par"`
	KeyLen uint32 `json:"key_len"`
}

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (PasswordHash, error)
	Verify(ctx context.Context, password string, stored PasswordHash) (bool, error)
}

// PasswordHash is a derived key together with everything needed to recompute it.
type PasswordHash struct {
	Hash []byte
	Salt []byte
	KDF  KDFParams
}
