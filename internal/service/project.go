package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

const maxTitleLen = 200

// UserFinder resolves usernames to principals.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (model.Principal, error)
}

// Project manages projects, tasks and collaborators and publishes a domain
// event after every successful write.
type Project struct {
	store     model.ProjectStore
	users     UserFinder
	publisher model.EventPublisher
	logger    *logger.Logger
}

func NewProject(store model.ProjectStore, users UserFinder, publisher model.EventPublisher, logger *logger.Logger) *Project {
	return &Project{
		store:     store,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Project) CreateProject(ctx context.Context, ownerID uuid.UUID, title, description string) (model.Project, error) {
	title, err := validateTitle(title)
	if err != nil {
		return model.Project{}, err
	}

	project, err := s.store.CreateProject(ctx, model.Project{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error("Project service: failed to create project",
			"user_id", ownerID,
			"error", err.Error())
		return model.Project{}, model.NewErrInternal(fmt.Errorf("failed to create project: %w", err))
	}

	s.publisher.Publish(ctx, model.ProjectCreated{Project: project})

	return project, nil
}

// ListProjects returns the projects owned by userID together with their tasks.
func (s *Project) ListProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	projects, err := s.store.ListProjectsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Project service: failed to list projects",
			"user_id", userID,
			"error", err.Error())
		return nil, model.NewErrInternal(fmt.Errorf("failed to list projects: %w", err))
	}
	return projects, nil
}

func (s *Project) CreateTask(ctx context.Context, userID uuid.UUID, projectID int64, title, description string) (model.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}

	if _, err := s.accessibleProject(ctx, userID, projectID); err != nil {
		return model.Task{}, err
	}

	task, err := s.store.CreateTask(ctx, model.Task{
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error("Project service: failed to create task",
			"project_id", projectID,
			"error", err.Error())
		return model.Task{}, model.NewErrInternal(fmt.Errorf("failed to create task: %w", err))
	}

	s.publisher.Publish(ctx, model.TaskCreated{Task: task})

	return task, nil
}

func (s *Project) SetTaskCompleted(ctx context.Context, userID uuid.UUID, taskID int64, completed bool) (model.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, model.NewErrNotFound("Task")
		}
		return model.Task{}, model.NewErrInternal(fmt.Errorf("failed to get task: %w", err))
	}

	if _, err := s.accessibleProject(ctx, userID, task.ProjectID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, model.NewErrNotFound("Task")
		}
		return model.Task{}, err
	}

	updated, err := s.store.SetTaskCompleted(ctx, taskID, completed)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, model.NewErrNotFound("Task")
		}
		s.logger.Error("Project service: failed to update task",
			"task_id", taskID,
			"error", err.Error())
		return model.Task{}, model.NewErrInternal(fmt.Errorf("failed to update task: %w", err))
	}

	s.publisher.Publish(ctx, model.TaskUpdated{Task: updated})

	return updated, nil
}

// AddCollaborator grants username access to a project. Only the owner may do this.
func (s *Project) AddCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, username string) (model.Collaborator, error) {
	if strings.TrimSpace(username) == "" {
		return model.Collaborator{}, model.NewErrValidation("Username is required")
	}

	if _, err := s.ownedProject(ctx, ownerID, projectID); err != nil {
		return model.Collaborator{}, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.Collaborator{}, err
	}
	if user.ID == ownerID {
		return model.Collaborator{}, model.NewErrValidation("Owner cannot be a collaborator")
	}

	collaborator, err := s.store.AddCollaborator(ctx, model.Collaborator{
		ProjectID: projectID,
		UserID:    user.ID,
		Username:  user.Username,
		AddedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Collaborator{}, model.NewErrConflict("User is already a collaborator")
		}
		s.logger.Error("Project service: failed to add collaborator",
			"project_id", projectID,
			"error", err.Error())
		return model.Collaborator{}, model.NewErrInternal(fmt.Errorf("failed to add collaborator: %w", err))
	}
	collaborator.Username = user.Username

	s.publisher.Publish(ctx, model.CollaboratorAdded{Collaborator: collaborator})

	return collaborator, nil
}

func (s *Project) ListCollaborators(ctx context.Context, userID uuid.UUID, projectID int64) ([]model.Collaborator, error) {
	if _, err := s.accessibleProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	collaborators, err := s.store.ListCollaborators(ctx, projectID)
	if err != nil {
		return nil, model.NewErrInternal(fmt.Errorf("failed to list collaborators: %w", err))
	}
	return collaborators, nil
}

func (s *Project) RemoveCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, userID uuid.UUID) error {
	if _, err := s.ownedProject(ctx, ownerID, projectID); err != nil {
		return err
	}

	if err := s.store.RemoveCollaborator(ctx, projectID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewErrNotFound("Collaborator")
		}
		s.logger.Error("Project service: failed to remove collaborator",
			"project_id", projectID,
			"error", err.Error())
		return model.NewErrInternal(fmt.Errorf("failed to remove collaborator: %w", err))
	}

	s.publisher.Publish(ctx, model.CollaboratorRemoved{Collaborator: model.Collaborator{
		ProjectID: projectID,
		UserID:    userID,
	}})

	return nil
}

// ownedProject reports a foreign project as not found so ids cannot be probed.
func (s *Project) ownedProject(ctx context.Context, userID uuid.UUID, projectID int64) (model.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return model.Project{}, err
	}
	if project.OwnerID != userID {
		return model.Project{}, model.NewErrNotFound("Project")
	}
	return project, nil
}

func (s *Project) accessibleProject(ctx context.Context, userID uuid.UUID, projectID int64) (model.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return model.Project{}, err
	}
	if project.OwnerID == userID {
		return project, nil
	}

	ok, err := s.store.IsCollaborator(ctx, projectID, userID)
	if err != nil {
		return model.Project{}, model.NewErrInternal(fmt.Errorf("failed to check collaborator: %w", err))
	}
	if !ok {
		return model.Project{}, model.NewErrNotFound("Project")
	}
	return project, nil
}

func (s *Project) getProject(ctx context.Context, projectID int64) (model.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Project{}, model.NewErrNotFound("Project")
		}
		return model.Project{}, model.NewErrInternal(fmt.Errorf("failed to get project: %w", err))
	}
	return project, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.NewErrValidation("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", model.NewErrValidation("Title is too long")
	}
	return title, nil
}
