package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// EventType is the wire tag of a domain event.
type EventType string

const (
	EventProjectCreated      EventType = "ProjectCreated"
	EventTaskCreated         EventType = "TaskCreated"
	EventTaskUpdated         EventType = "TaskUpdated"
	EventCollaboratorAdded   EventType = "CollaboratorAdded"
	EventCollaboratorRemoved EventType = "CollaboratorRemoved"
)

// DomainEvent is a closed set of change notifications. Only the types in this
// file implement it.
type DomainEvent interface {
	Type() EventType
	domainEvent()
}

type ProjectCreated struct{ Project Project }

type TaskCreated struct{ Task Task }

type TaskUpdated struct{ Task Task }

type CollaboratorAdded struct{ Collaborator Collaborator }

type CollaboratorRemoved struct{ Collaborator Collaborator }

func (ProjectCreated) Type() EventType      { return EventProjectCreated }
func (TaskCreated) Type() EventType         { return EventTaskCreated }
func (TaskUpdated) Type() EventType         { return EventTaskUpdated }
func (CollaboratorAdded) Type() EventType   { return EventCollaboratorAdded }
func (CollaboratorRemoved) Type() EventType { return EventCollaboratorRemoved }

func (ProjectCreated) domainEvent()      {}
func (TaskCreated) domainEvent()         {}
func (TaskUpdated) domainEvent()         {}
func (CollaboratorAdded) domainEvent()   {}
func (CollaboratorRemoved) domainEvent() {}

// EventPublisher fans domain events out to live subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent)
}

type eventEnvelope struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// EncodeEvent renders an event as {"type": ..., "payload": ...}.
func EncodeEvent(event DomainEvent) ([]byte, error) {
	var payload any
	switch e := event.(type) {
	case ProjectCreated:
		p := e.Project
		p.Tasks = nil
		payload = p
	case TaskCreated:
		payload = e.Task
	case TaskUpdated:
		payload = e.Task
	case CollaboratorAdded:
		payload = e.Collaborator
	case CollaboratorRemoved:
		payload = e.Collaborator
	default:
		return nil, fmt.Errorf("unknown event %T", event)
	}

	data, err := json.Marshal(eventEnvelope{Type: event.Type(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}
	return data, nil
}
