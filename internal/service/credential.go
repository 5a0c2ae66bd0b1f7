package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

const (
	maxUsernameLen = 64
	maxPasswordLen = 1024
	dummyKeyLen    = 32
)

// Credentials verifies username/password pairs and registers new users.
type Credentials struct {
	store  model.UserStore
	hasher model.PasswordHasher
	logger *logger.Logger
	dummy  model.PasswordHash
}

// NewCredentials creates a credential store. kdf must match the hasher's
// parameters so that lookups of unknown users cost the same as real ones.
func NewCredentials(store model.UserStore, hasher model.PasswordHasher, kdf model.KDFParams, logger *logger.Logger) *Credentials {
	if kdf.KeyLen == 0 {
		kdf.KeyLen = dummyKeyLen
	}
	return &Credentials{
		store:  store,
		hasher: hasher,
		logger: logger,
		dummy: model.PasswordHash{
			Hash: make([]byte, kdf.KeyLen),
			Salt: make([]byte, 16),
			KDF:  kdf,
		},
	}
}

// Register creates a credential for username and returns its principal.
func (c *Credentials) Register(ctx context.Context, username, password string) (model.Principal, error) {
	if err := validateCredentials(username, password); err != nil {
		return model.Principal{}, err
	}

	c.logger.Debug("Credentials: registering user", "username", username)

	_, err := c.store.GetByUsername(ctx, username)
	switch {
	case err == nil:
		c.logger.Info("Credentials: username already exists", "username", username)
		return model.Principal{}, model.NewErrDuplicateUsername(username)
	case !errors.Is(err, model.ErrNotFound):
		c.logger.Error("Credentials: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to get user by username: %w", err))
	}

	hashed, err := c.hasher.Hash(ctx, password)
	if err != nil {
		c.logger.Error("Credentials: failed to hash password",
			"username", username,
			"error", err.Error())
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now()
	saved, err := c.store.Create(ctx, model.Credential{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashed.Hash,
		Salt:         hashed.Salt,
		KDF:          hashed.KDF,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Principal{}, model.NewErrDuplicateUsername(username)
		}
		c.logger.Error("Credentials: failed to create user",
			"username", username,
			"error", err.Error())
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to create user: %w", err))
	}

	c.logger.Info("Credentials: user registered", "username", username, "user_id", saved.ID)

	return saved.Principal(), nil
}

// Verify checks password against the stored hash of username.
//
// An unknown username still costs one hash computation, and both failure
// modes are reported as authentication errors with the same message.
func (c *Credentials) Verify(ctx context.Context, username, password string) (model.Principal, error) {
	if username == "" || password == "" {
		return model.Principal{}, model.NewErrValidation("Username and password are required")
	}

	credential, err := c.store.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			c.logger.Error("Credentials: failed to get user by username",
				"username", username,
				"error", err.Error())
			return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to get user by username: %w", err))
		}
		_, _ = c.hasher.Verify(ctx, password, c.dummy)
		return model.Principal{}, model.NewErrInvalidCredentials(model.ErrUserNotFound)
	}

	ok, err := c.hasher.Verify(ctx, password, model.PasswordHash{
		Hash: credential.PasswordHash,
		Salt: credential.Salt,
		KDF:  credential.KDF,
	})
	if err != nil {
		c.logger.Error("Credentials: failed to verify password",
			"username", username,
			"error", err.Error())
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to verify password: %w", err))
	}
	if !ok {
		return model.Principal{}, model.NewErrInvalidCredentials(model.ErrIncorrectPassword)
	}

	return credential.Principal(), nil
}

// GetPrincipal resolves a subject id to its principal.
func (c *Credentials) GetPrincipal(ctx context.Context, id uuid.UUID) (model.Principal, error) {
	credential, err := c.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, model.NewErrNotFound("User")
		}
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to get user by id: %w", err))
	}
	return credential.Principal(), nil
}

// FindByUsername resolves a username to its principal.
func (c *Credentials) FindByUsername(ctx context.Context, username string) (model.Principal, error) {
	credential, err := c.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, model.NewErrNotFound("User")
		}
		return model.Principal{}, model.NewErrInternal(fmt.Errorf("failed to get user by username: %w", err))
	}
	return credential.Principal(), nil
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return model.NewErrValidation("Username and password are required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return model.NewErrValidation("Username is too long")
	}
	if len(password) > maxPasswordLen {
		return model.NewErrValidation("Password is too long")
	}
	return nil
}
