package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/api/authctx"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// AuthService registers users and hands out bearer tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (model.Session, error)
	Login(ctx context.Context, username, password string) (model.Session, error)
	Logout(ctx context.Context, token string) error
}

// Auth serves the account endpoints.
type Auth struct {
	service        AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(service AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{service: service, contextManager: contextManager, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    model.Principal `json:"user"`
}

// Register handles POST /api/register. A taken username is a 400.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	session, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleCredentialsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Registration successful",
		Token:   session.Token,
		User:    session.Principal,
	})
}

// Login handles POST /api/login. Bad credentials are a 400.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleCredentialsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		Token:   session.Token,
		User:    session.Principal,
	})
}

// Logout handles POST /api/logout.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := authctx.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// User handles GET /api/user and returns the caller's principal.
func (h *Auth) User(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, principal)
}

func (h *Auth) handleCredentialsError(w http.ResponseWriter, err error) {
	switch model.KindOf(err) {
	case model.KindConflict, model.KindAuthentication:
		writeMessage(w, http.StatusBadRequest, model.MessageOf(err))
	default:
		handleError(w, err, h.logger)
	}
}
