package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// ProjectService manages projects, tasks and collaborators.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, title, description string) (model.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	CreateTask(ctx context.Context, userID uuid.UUID, projectID int64, title, description string) (model.Task, error)
	SetTaskCompleted(ctx context.Context, userID uuid.UUID, taskID int64, completed bool) (model.Task, error)
	AddCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, username string) (model.Collaborator, error)
	ListCollaborators(ctx context.Context, userID uuid.UUID, projectID int64) ([]model.Collaborator, error)
	RemoveCollaborator(ctx context.Context, ownerID uuid.UUID, projectID int64, userID uuid.UUID) error
}

// Project serves the project, task and collaborator endpoints. Every route
// sits behind the auth guard.
type Project struct {
	service        ProjectService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewProject(service ProjectService, contextManager model.ContextManager, logger *logger.Logger) *Project {
	return &Project{service: service, contextManager: contextManager, logger: logger}
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Completed *bool `json:"completed"`
}

type addCollaboratorRequest struct {
	Username string `json:"username"`
}

func (h *Project) CreateProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	project, err := h.service.CreateProject(r.Context(), principal.ID, req.Title, req.Description)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *Project) ListProjects(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(r.Context(), principal.ID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *Project) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectId")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	task, err := h.service.CreateTask(r.Context(), principal.ID, projectID, req.Title, req.Description)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Project) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	taskID, err := pathID(r, "taskId")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}
	if req.Completed == nil {
		writeMessage(w, http.StatusBadRequest, "completed is required")
		return
	}

	task, err := h.service.SetTaskCompleted(r.Context(), principal.ID, taskID, *req.Completed)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Project) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectId")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	collaborators, err := h.service.ListCollaborators(r.Context(), principal.ID, projectID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	if collaborators == nil {
		collaborators = []model.Collaborator{}
	}

	writeJSON(w, http.StatusOK, collaborators)
}

func (h *Project) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectId")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req addCollaboratorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	collaborator, err := h.service.AddCollaborator(r.Context(), principal.ID, projectID, req.Username)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, collaborator)
}

func (h *Project) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectId")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	if err := h.service.RemoveCollaborator(r.Context(), principal.ID, projectID, userID); err != nil {
		handleError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Project) principal(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return principal, ok
}
