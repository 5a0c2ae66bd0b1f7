package service

import (
	"context"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Auth registers and logs in users and hands out bearer tokens.
type Auth struct {
	credentials  *Credentials
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(credentials *Credentials, tokenService *TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		credentials:  credentials,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (a *Auth) Register(ctx context.Context, username, password string) (model.Session, error) {
	principal, err := a.credentials.Register(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}

	return a.issue(principal)
}

func (a *Auth) Login(ctx context.Context, username, password string) (model.Session, error) {
	a.logger.Debug("Auth service: starting user login", "username", username)

	principal, err := a.credentials.Verify(ctx, username, password)
	if err != nil {
		if model.KindOf(err) == model.KindAuthentication {
			a.logger.Info("Auth service: login rejected", "username", username)
		}
		return model.Session{}, err
	}

	a.logger.Info("Auth service: login succeeded", "username", username, "user_id", principal.ID)

	return a.issue(principal)
}

func (a *Auth) Logout(ctx context.Context, token string) error {
	return a.tokenService.Revoke(ctx, token)
}

func (a *Auth) issue(principal model.Principal) (model.Session, error) {
	token, err := a.tokenService.Issue(principal)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", principal.ID,
			"error", err.Error())
		return model.Session{}, err
	}
	return model.Session{Token: token, Principal: principal}, nil
}
