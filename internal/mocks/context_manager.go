package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// ContextManager is a mock type for the model.ContextManager type.
type ContextManager struct {
	mock.Mock
}

func (_m *ContextManager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	ret := _m.Called(ctx, principal)
	return ret.Get(0).(context.Context)
}

func (_m *ContextManager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	ret := _m.Called(ctx)
	return ret.Get(0).(model.Principal), ret.Bool(1)
}

// NewContextManager creates a new instance of ContextManager. It also registers
// a cleanup function to assert the mocks expectations.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
