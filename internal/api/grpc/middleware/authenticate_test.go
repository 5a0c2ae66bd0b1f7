package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	principal := model.Principal{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		name         string
		mdAuthHeader string
		callsAuth    bool
		authErr      error
		wantGRPCCode codes.Code
		expectSetCtx bool
	}{
		{
			name:         "missing authorization header",
			mdAuthHeader: "",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic dXNlcjpwYXNz",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			callsAuth:    true,
			authErr:      model.NewErrUnauthorized(model.ErrTokenInvalidSignature),
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "store failure",
			mdAuthHeader: "Bearer token",
			callsAuth:    true,
			authErr:      model.NewErrInternal(errors.New("db down")),
			wantGRPCCode: codes.Internal,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			callsAuth:    true,
			wantGRPCCode: codes.OK,
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)
			authenticator := mocks.NewAuthenticator(t)

			if tt.callsAuth {
				authenticator.On("Authenticate", mock.Anything, mock.AnythingOfType("string")).Return(principal, tt.authErr)
			}
			if tt.expectSetCtx {
				cm.On("SetPrincipalToContext", mock.Anything, principal).Return(context.Background())
			}

			m := NewAuthenticate(authenticator, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantGRPCCode != codes.OK {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantGRPCCode, st.Code())
				assert.Nil(t, newCtx)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, newCtx)
			}
		})
	}
}
