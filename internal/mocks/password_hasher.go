package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// PasswordHasher is a mock type for the model.PasswordHasher type.
type PasswordHasher struct {
	mock.Mock
}

func (_m *PasswordHasher) Hash(ctx context.Context, password string) (model.PasswordHash, error) {
	ret := _m.Called(ctx, password)
	return ret.Get(0).(model.PasswordHash), ret.Error(1)
}

func (_m *PasswordHasher) Verify(ctx context.Context, password string, stored model.PasswordHash) (bool, error) {
	ret := _m.Called(ctx, password, stored)
	return ret.Bool(0), ret.Error(1)
}

// NewPasswordHasher creates a new instance of PasswordHasher. It also registers
// a cleanup function to assert the mocks expectations.
func NewPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
