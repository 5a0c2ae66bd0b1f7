package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// ProjectStore is a mock type for the model.ProjectStore type.
type ProjectStore struct {
	mock.Mock
}

func (_m *ProjectStore) CreateProject(ctx context.Context, project model.Project) (model.Project, error) {
	ret := _m.Called(ctx, project)
	return ret.Get(0).(model.Project), ret.Error(1)
}

func (_m *ProjectStore) GetProject(ctx context.Context, id int64) (model.Project, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Project), ret.Error(1)
}

func (_m *ProjectStore) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	ret := _m.Called(ctx, ownerID)

	var r0 []model.Project
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Project)
	}
	return r0, ret.Error(1)
}

func (_m *ProjectStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	ret := _m.Called(ctx, task)
	return ret.Get(0).(model.Task), ret.Error(1)
}

func (_m *ProjectStore) GetTask(ctx context.Context, id int64) (model.Task, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Task), ret.Error(1)
}

func (_m *ProjectStore) SetTaskCompleted(ctx context.Context, id int64, completed bool) (model.Task, error) {
	ret := _m.Called(ctx, id, completed)
	return ret.Get(0).(model.Task), ret.Error(1)
}

func (_m *ProjectStore) AddCollaborator(ctx context.Context, collaborator model.Collaborator) (model.Collaborator, error) {
	ret := _m.Called(ctx, collaborator)
	return ret.Get(0).(model.Collaborator), ret.Error(1)
}

func (_m *ProjectStore) RemoveCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) error {
	ret := _m.Called(ctx, projectID, userID)
	return ret.Error(0)
}

func (_m *ProjectStore) ListCollaborators(ctx context.Context, projectID int64) ([]model.Collaborator, error) {
	ret := _m.Called(ctx, projectID)

	var r0 []model.Collaborator
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Collaborator)
	}
	return r0, ret.Error(1)
}

func (_m *ProjectStore) IsCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, projectID, userID)
	return ret.Bool(0), ret.Error(1)
}

// NewProjectStore creates a new instance of ProjectStore. It also registers a
// cleanup function to assert the mocks expectations.
func NewProjectStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProjectStore {
	m := &ProjectStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// StatisticsStore is a mock type for the model.StatisticsStore type.
type StatisticsStore struct {
	mock.Mock
}

func (_m *StatisticsStore) CountForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.Statistics), ret.Error(1)
}

// NewStatisticsStore creates a new instance of StatisticsStore. It also
// registers a cleanup function to assert the mocks expectations.
func NewStatisticsStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatisticsStore {
	m := &StatisticsStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
