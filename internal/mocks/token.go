package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// TokenCodec is a mock type for the model.TokenCodec type.
type TokenCodec struct {
	mock.Mock
}

func (_m *TokenCodec) Issue(principal model.Principal) (string, error) {
	ret := _m.Called(principal)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenCodec) Verify(token string) (model.TokenClaims, error) {
	ret := _m.Called(token)
	return ret.Get(0).(model.TokenClaims), ret.Error(1)
}

// NewTokenCodec creates a new instance of TokenCodec. It also registers a
// cleanup function to assert the mocks expectations.
func NewTokenCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenCodec {
	m := &TokenCodec{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// RevocationStore is a mock type for the model.RevocationStore type.
type RevocationStore struct {
	mock.Mock
}

func (_m *RevocationStore) Revoke(ctx context.Context, token model.RevokedToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ret := _m.Called(ctx, jti)
	return ret.Bool(0), ret.Error(1)
}

// NewRevocationStore creates a new instance of RevocationStore. It also
// registers a cleanup function to assert the mocks expectations.
func NewRevocationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RevocationStore {
	m := &RevocationStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
