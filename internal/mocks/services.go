package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// Authenticator is a mock type for the token-to-principal resolvers used by
// the HTTP guard, the gRPC interceptor and the push gate.
type Authenticator struct {
	mock.Mock
}

func (_m *Authenticator) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

// NewAuthenticator creates a new instance of Authenticator. It also registers a
// cleanup function to assert the mocks expectations.
func NewAuthenticator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authenticator {
	m := &Authenticator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// AuthService is a mock type for the HTTP auth handler's service.
type AuthService struct {
	mock.Mock
}

func (_m *AuthService) Register(ctx context.Context, username, password string) (model.Session, error) {
	ret := _m.Called(ctx, username, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) Login(ctx context.Context, username, password string) (model.Session, error) {
	ret := _m.Called(ctx, username, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) Logout(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// NewAuthService creates a new instance of AuthService. It also registers a
// cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// ProjectService is a mock type for the HTTP project handler's service.
type ProjectService struct {
	mock.Mock
}

func (_m *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, title, description string) (model.Project, error) {
	ret := _m.Called(ctx, ownerID, title, description)
	return ret.Get(0).(model.Project), ret.Error(1)
}

func (_m *ProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	ret := _m.Called(ctx, userID)

	var r0 []model.Project
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Project)
	}
	return r0, ret.Error(1)
}

func (_m *ProjectService) CreateTask(ctx context.Context, userID uuid.UUID, projectID int64, title, description string) (model.Task, error) {
	ret := _m.Called(ctx, userID, projectID, title, description)
	return ret.Get(0).(model.Task), ret.Error(1)
}

func (_m *ProjectService) SetTaskCompleted(ctx context.Context, userID uuid.UUID, taskID int64, completed bool) (model.Task, error) {
	ret := _m.Called(ctx, userID, taskID, completed)
	return ret.Get(0).(model.Task), ret.Error(1)
}

func (_m *ProjectService) AddCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, username string) (model.Collaborator, error) {
	ret := _m.Called(ctx, ownerID, projectID, username)
	return ret.Get(0).(model.Collaborator), ret.Error(1)
}

func (_m *ProjectService) ListCollaborators(ctx context.Context, userID uuid.UUID, projectID int64) ([]model.Collaborator, error) {
	ret := _m.Called(ctx, userID, projectID)

	var r0 []model.Collaborator
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Collaborator)
	}
	return r0, ret.Error(1)
}

func (_m *ProjectService) RemoveCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, userID uuid.UUID) error {
	ret := _m.Called(ctx, ownerID, projectID, userID)
	return ret.Error(0)
}

// NewProjectService creates a new instance of ProjectService. It also registers
// a cleanup function to assert the mocks expectations.
func NewProjectService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProjectService {
	m := &ProjectService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// StatisticsService is a mock type for the statistics handlers' service.
type StatisticsService struct {
	mock.Mock
}

func (_m *StatisticsService) ForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.Statistics), ret.Error(1)
}

// NewStatisticsService creates a new instance of StatisticsService. It also
// registers a cleanup function to assert the mocks expectations.
func NewStatisticsService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatisticsService {
	m := &StatisticsService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// PrincipalFinder is a mock type for service.PrincipalFinder.
type PrincipalFinder struct {
	mock.Mock
}

func (_m *PrincipalFinder) GetPrincipal(ctx context.Context, id uuid.UUID) (model.Principal, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

// NewPrincipalFinder creates a new instance of PrincipalFinder. It also
// registers a cleanup function to assert the mocks expectations.
func NewPrincipalFinder(t interface {
	mock.TestingT
	Cleanup(func())
}) *PrincipalFinder {
	m := &PrincipalFinder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// UserFinder is a mock type for service.UserFinder.
type UserFinder struct {
	mock.Mock
}

func (_m *UserFinder) FindByUsername(ctx context.Context, username string) (model.Principal, error) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

// NewUserFinder creates a new instance of UserFinder. It also registers a
// cleanup function to assert the mocks expectations.
func NewUserFinder(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserFinder {
	m := &UserFinder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
