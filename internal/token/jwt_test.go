package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tasktracker-server/internal/model"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", 0)
	p := model.Principal{ID: uuid.New(), Username: "alice"}

	tok, err := j.Issue(p)
	require.NoError(t, err)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.SubjectID)
	assert.NotEmpty(t, claims.JTI)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestJWT_TokenIsHeaderSafe(t *testing.T) {
	j := NewJWT("secret", 0)

	tok, err := j.Issue(model.Principal{ID: uuid.New()})
	require.NoError(t, err)

	for _, r := range tok {
		ok := r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.Truef(t, ok, "unexpected character %q", r)
	}
}

func TestJWT_EmptyPrincipal(t *testing.T) {
	_, err := NewJWT("secret", 0).Issue(model.Principal{})
	require.Error(t, err)
}

func TestJWT_SingleBitFlipFails(t *testing.T) {
	j := NewJWT("secret", 0)

	tok, err := j.Issue(model.Principal{ID: uuid.New()})
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		for bit := 0; bit < 8; bit++ {
			b := []byte(tok)
			b[i] ^= 1 << bit

			_, err := j.Verify(string(b))
			require.Errorf(t, err, "flip of bit %d at byte %d was accepted", bit, i)
		}
	}
}

func TestJWT_VerifyErrors(t *testing.T) {
	j := NewJWT("secret", 0)
	p := model.Principal{ID: uuid.New()}

	otherKey, err := NewJWT("other", 0).Issue(p)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: p.ID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: model.ErrTokenMalformed},
		{name: "garbage", token: "invalid-token", want: model.ErrTokenMalformed},
		{name: "two segments", token: "a.b", want: model.ErrTokenMalformed},
		{name: "signed with another key", token: otherKey, want: model.ErrTokenInvalidSignature},
		{name: "none algorithm", token: noneAlg, want: model.ErrTokenInvalidSignature},
		{name: "missing subject", token: noSubject, want: model.ErrTokenMalformed},
		{name: "truncated signature", token: otherKey[:strings.LastIndex(otherKey, ".")+1], want: model.ErrTokenInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJWT_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	j := NewJWT("secret", time.Hour)
	j.now = func() time.Time { return now }

	tok, err := j.Issue(model.Principal{ID: uuid.New()})
	require.NoError(t, err)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.UTC())

	j.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_NoExpiryByDefault(t *testing.T) {
	now := time.Now()
	j := NewJWT("secret", 0)

	tok, err := j.Issue(model.Principal{ID: uuid.New()})
	require.NoError(t, err)

	j.now = func() time.Time { return now.Add(10 * 365 * 24 * time.Hour) }
	_, err = j.Verify(tok)
	assert.NoError(t, err)
}
