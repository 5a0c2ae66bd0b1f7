package authctx

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/model"
)

type principalKey struct{}

// Manager carries the authenticated principal through request contexts.
// HTTP handlers and gRPC methods share it, so a guard on either transport
// hands the same value to the service layer.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetPrincipalToContext stores the principal in ctx.
//
// Parameters:
//   - ctx: The request context
//   - principal: The authenticated principal
//
// Returns a new context carrying the principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext retrieves the principal stored by SetPrincipalToContext.
//
// Parameters:
//   - ctx: The request context
//
// Returns the principal and a boolean indicating if a non-empty principal was found.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.ID == uuid.Nil {
		return model.Principal{}, false
	}
	return principal, true
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
