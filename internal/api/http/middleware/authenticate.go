package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/api/authctx"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Authenticator resolves bearer tokens to principals.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// principal to the request context of those it lets through.
type RequireAuth struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewRequireAuth(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *RequireAuth {
	return &RequireAuth{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

func (m *RequireAuth) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := authctx.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		principal, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if model.KindOf(err) != model.KindAuthentication {
				m.logger.Error("HTTP auth: failed to authenticate", "error", err.Error())
				writeMessage(w, http.StatusInternalServerError, "Server error")
				return
			}
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetPrincipalToContext(r.Context(), principal)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tasktracker"`)
	writeMessage(w, http.StatusUnauthorized, "Unauthorized")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
