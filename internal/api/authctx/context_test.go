package authctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/tasktracker-server/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	want := model.Principal{ID: uuid.New(), Username: "alice"}

	ctx := m.SetPrincipalToContext(context.Background(), want)

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetPrincipalFromContext(context.Background())
	assert.False(t, ok)
}

func TestManager_GetPrincipal_EmptyPrincipal(t *testing.T) {
	m := NewManager()
	ctx := m.SetPrincipalToContext(context.Background(), model.Principal{Username: "ghost"})
	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_InnerValueWins(t *testing.T) {
	m := NewManager()
	first, second := uuid.New(), uuid.New()

	ctx := m.SetPrincipalToContext(context.Background(), model.Principal{ID: first, Username: "a"})
	ctx = m.SetPrincipalToContext(ctx, model.Principal{ID: second, Username: "b"})

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, second, got.ID)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "Bearer   abc  ", want: "abc", ok: true},
		{header: "Bearer ", ok: false},
		{header: "Basic abc", ok: false},
		{header: "abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
