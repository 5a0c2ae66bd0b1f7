package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProjectStore defines persistence operations for projects, tasks and collaborators.
type ProjectStore interface {
	CreateProject(ctx context.Context, project Project) (Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Project, error)
	CreateTask(ctx context.Context, task Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	SetTaskCompleted(ctx context.Context, id int64, completed bool) (Task, error)
	AddCollaborator(ctx context.Context, collaborator Collaborator) (Collaborator, error)
	RemoveCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) error
	ListCollaborators(ctx context.Context, projectID int64) ([]Collaborator, error)
	IsCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error)
}

// Project is a named container of tasks owned by one user.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"userId,omitzero"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	Tasks       []Task    `json:"tasks,omitempty"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	ProjectID   int64     `json:"projectId"`
	UserID      uuid.UUID `json:"userId,omitzero"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Collaborator grants a user access to a project they do not own.
type Collaborator struct {
	ProjectID int64     `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitzero"`
}

// StatisticsStore aggregates per-user counters.
type StatisticsStore interface {
	CountForUser(ctx context.Context, userID uuid.UUID) (Statistics, error)
}

// Statistics summarises a user's projects and tasks.
type Statistics struct {
	ProjectCount       int64 `json:"projectCount"`
	TaskCount          int64 `json:"taskCount"`
	CompletedTaskCount int64 `json:"completedTaskCount"`
}
