package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/model"
)

// EventPublisher is a mock type for the model.EventPublisher type.
type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) Publish(ctx context.Context, event model.DomainEvent) {
	_m.Called(ctx, event)
}

// NewEventPublisher creates a new instance of EventPublisher. It also registers
// a cleanup function to assert the mocks expectations.
func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
