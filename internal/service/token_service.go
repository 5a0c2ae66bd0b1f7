package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// PrincipalFinder resolves subject ids to principals.
type PrincipalFinder interface {
	GetPrincipal(ctx context.Context, id uuid.UUID) (model.Principal, error)
}

// TokenService issues, verifies and revokes bearer tokens. It composes the
// TokenCodec with an optional RevocationStore and the principal lookup used
// by request guards.
type TokenService struct {
	codec       model.TokenCodec
	revocations model.RevocationStore
	principals  PrincipalFinder
	logger      *logger.Logger
}

// NewTokenService creates a TokenService. A nil revocations store disables
// revocation: tokens are then valid until the signing secret changes.
func NewTokenService(codec model.TokenCodec, revocations model.RevocationStore, principals PrincipalFinder, logger *logger.Logger) *TokenService {
	return &TokenService{codec: codec, revocations: revocations, principals: principals, logger: logger}
}

func (s *TokenService) Issue(principal model.Principal) (string, error) {
	token, err := s.codec.Issue(principal)
	if err != nil {
		return "", model.NewErrInternal(fmt.Errorf("issue token: %w", err))
	}
	return token, nil
}

// Verify checks the token signature and, when enabled, its revocation state.
func (s *TokenService) Verify(ctx context.Context, token string) (model.TokenClaims, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return model.TokenClaims{}, err
	}

	if s.revocations != nil && claims.JTI != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.JTI)
		if err != nil {
			return model.TokenClaims{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return model.TokenClaims{}, model.ErrTokenRevoked
		}
	}

	return claims, nil
}

// Authenticate verifies token and resolves its subject to a principal.
func (s *TokenService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, model.NewErrUnauthorized(model.ErrTokenMalformed)
	}

	claims, err := s.Verify(ctx, token)
	if err != nil {
		if isTokenError(err) {
			return model.Principal{}, model.NewErrUnauthorized(err)
		}
		s.logger.Error("Token service: failed to verify token", "error", err.Error())
		return model.Principal{}, model.NewErrInternal(err)
	}

	principal, err := s.principals.GetPrincipal(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, model.NewErrUnauthorized(err)
		}
		s.logger.Error("Token service: failed to resolve principal",
			"user_id", claims.SubjectID,
			"error", err.Error())
		return model.Principal{}, err
	}

	return principal, nil
}

// Revoke marks the token's jti as revoked. It is a no-op when revocation is disabled.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.revocations == nil {
		return nil
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return model.NewErrUnauthorized(err)
	}
	if claims.JTI == "" {
		return nil
	}

	err = s.revocations.Revoke(ctx, model.RevokedToken{
		JTI:       claims.JTI,
		UserID:    claims.SubjectID,
		ExpiresAt: claims.ExpiresAt,
		RevokedAt: time.Now(),
	})
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("revoke token: %w", err))
	}

	s.logger.Info("Token service: token revoked", "user_id", claims.SubjectID, "jti", claims.JTI)

	return nil
}

func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenMalformed) ||
		errors.Is(err, model.ErrTokenInvalidSignature) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenRevoked)
}
