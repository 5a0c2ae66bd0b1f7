// Package password hashes and verifies user passwords with argon2id.
package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/dtroode/tasktracker-server/internal/model"
)

const (
	saltLen       = 16
	defaultKeyLen = 32
	maxKeyLen     = 1024
)

var ErrEmptyPassword = errors.New("password cannot be empty")

var _ model.PasswordHasher = (*Argon2id)(nil)

// Argon2id implements model.PasswordHasher. At most maxConcurrency hashes are
// computed at once because each one allocates MemKiB of memory.
type Argon2id struct {
	params model.KDFParams
	sem    *semaphore.Weighted
}

// NewArgon2id creates a hasher that derives new hashes with params.
func NewArgon2id(params model.KDFParams, maxConcurrency int64) *Argon2id {
	if params.KeyLen == 0 {
		params.KeyLen = defaultKeyLen
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Argon2id{
		params: params,
		sem:    semaphore.NewWeighted(maxConcurrency),
	}
}

// Params returns the parameters used for new hashes.
func (h *Argon2id) Params() model.KDFParams {
	return h.params
}

// Hash derives a key from password with a fresh random salt.
func (h *Argon2id) Hash(ctx context.Context, password string) (model.PasswordHash, error) {
	if password == "" {
		return model.PasswordHash{}, ErrEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return model.PasswordHash{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := h.derive(ctx, password, salt, h.params)
	if err != nil {
		return model.PasswordHash{}, err
	}

	return model.PasswordHash{Hash: key, Salt: salt, KDF: h.params}, nil
}

// Verify recomputes the key with the stored salt and parameters and compares
// it in constant time.
func (h *Argon2id) Verify(ctx context.Context, password string, stored model.PasswordHash) (bool, error) {
	if err := validateParams(stored.KDF, len(stored.Hash)); err != nil {
		return false, err
	}

	params := stored.KDF
	params.KeyLen = uint32(len(stored.Hash))

	key, err := h.derive(ctx, password, stored.Salt, params)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, stored.Hash) == 1, nil
}

func (h *Argon2id) derive(ctx context.Context, password string, salt []byte, params model.KDFParams) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	return argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, params.KeyLen), nil
}

func validateParams(params model.KDFParams, keyLen int) error {
	if params.Time == 0 || params.MemKiB == 0 || params.Par == 0 {
		return fmt.Errorf("invalid kdf parameters: %+v", params)
	}
	if keyLen <= 0 || keyLen > maxKeyLen {
		return fmt.Errorf("invalid hash length: %d", keyLen)
	}
	return nil
}
