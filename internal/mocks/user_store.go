package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// UserStore is a mock type for the model.UserStore type.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) GetByUsername(ctx context.Context, username string) (model.Credential, error) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(model.Credential), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.Credential, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Credential), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, credential model.Credential) (model.Credential, error) {
	ret := _m.Called(ctx, credential)
	if rf, ok := ret.Get(0).(func(context.Context, model.Credential) model.Credential); ok {
		return rf(ctx, credential), ret.Error(1)
	}
	return ret.Get(0).(model.Credential), ret.Error(1)
}

// NewUserStore creates a new instance of UserStore. It also registers a cleanup
// function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
