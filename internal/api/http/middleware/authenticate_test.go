package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/api/authctx"
	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func TestRequireAuth_Handle(t *testing.T) {
	t.Parallel()

	principal := model.Principal{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		name       string
		header     string
		callsAuth  bool
		authErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Unauthorized"}`,
		},
		{
			name:       "wrong scheme",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Unauthorized"}`,
		},
		{
			name:       "invalid token",
			header:     "Bearer abc",
			callsAuth:  true,
			authErr:    model.NewErrUnauthorized(model.ErrTokenInvalidSignature),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Unauthorized"}`,
		},
		{
			name:       "store failure",
			header:     "Bearer abc",
			callsAuth:  true,
			authErr:    model.NewErrInternal(errors.New("db down")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Server error"}`,
		},
		{
			name:       "valid token",
			header:     "Bearer abc",
			callsAuth:  true,
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"alice"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authenticator := mocks.NewAuthenticator(t)
			if tt.callsAuth {
				authenticator.On("Authenticate", mock.Anything, "abc").Return(principal, tt.authErr)
			}

			cm := authctx.NewManager()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				p, ok := cm.GetPrincipalFromContext(r.Context())
				assert.True(t, ok)
				writeMessage(w, http.StatusOK, p.Username)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewRequireAuth(authenticator, cm, testutil.MakeNoopLogger()).Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
