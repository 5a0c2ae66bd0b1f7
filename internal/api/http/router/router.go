package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/tasktracker-server/internal/api/http/handler"
	"github.com/dtroode/tasktracker-server/internal/api/http/middleware"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Router assembles the REST API, the push endpoint and the metrics endpoint
// onto one mux.
type Router struct {
	authService       handler.AuthService
	projectService    handler.ProjectService
	statisticsService handler.StatisticsService
	authenticator     middleware.Authenticator
	contextManager    model.ContextManager
	push              http.Handler
	gatherer          prometheus.Gatherer
	logger            *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - authService: Registration, login and logout
//   - projectService: Projects, tasks and collaborators
//   - statisticsService: Per-user counters
//   - authenticator: Resolves bearer tokens for the auth guard
//   - contextManager: Carries the principal to handlers
//   - push: The websocket endpoint mounted at /ws
//   - gatherer: Source for /metrics; nil disables the endpoint
//   - logger: The logger for request logging
func New(
	authService handler.AuthService,
	projectService handler.ProjectService,
	statisticsService handler.StatisticsService,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	push http.Handler,
	gatherer prometheus.Gatherer,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		projectService:    projectService,
		statisticsService: statisticsService,
		authenticator:     authenticator,
		contextManager:    contextManager,
		push:              push,
		gatherer:          gatherer,
		logger:            logger,
	}
}

// Register builds the handler tree with request logging applied to every route.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()
	guard := middleware.NewRequireAuth(r.authenticator, r.contextManager, r.logger)

	r.registerAuthRoutes(mux, guard)
	r.registerProjectRoutes(mux, guard)
	r.registerStatisticsRoutes(mux, guard)

	if r.push != nil {
		mux.Handle("GET /ws", r.push)
	}
	if r.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	}

	return middleware.NewLogging(r.logger).Handle(mux)
}

func (r *Router) registerAuthRoutes(mux *http.ServeMux, guard *middleware.RequireAuth) {
	h := handler.NewAuth(r.authService, r.contextManager, r.logger)

	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.Handle("POST /api/logout", guard.Handle(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/user", guard.Handle(http.HandlerFunc(h.User)))
}

func (r *Router) registerProjectRoutes(mux *http.ServeMux, guard *middleware.RequireAuth) {
	h := handler.NewProject(r.projectService, r.contextManager, r.logger)

	mux.Handle("POST /api/projects", guard.Handle(http.HandlerFunc(h.CreateProject)))
	mux.Handle("GET /api/projects", guard.Handle(http.HandlerFunc(h.ListProjects)))
	mux.Handle("POST /api/projects/{projectId}/tasks", guard.Handle(http.HandlerFunc(h.CreateTask)))
	mux.Handle("PATCH /api/tasks/{taskId}", guard.Handle(http.HandlerFunc(h.UpdateTask)))
	mux.Handle("GET /api/projects/{projectId}/collaborators", guard.Handle(http.HandlerFunc(h.ListCollaborators)))
	mux.Handle("POST /api/projects/{projectId}/collaborators", guard.Handle(http.HandlerFunc(h.AddCollaborator)))
	mux.Handle("DELETE /api/projects/{projectId}/collaborators/{userId}", guard.Handle(http.HandlerFunc(h.RemoveCollaborator)))
}

func (r *Router) registerStatisticsRoutes(mux *http.ServeMux, guard *middleware.RequireAuth) {
	h := handler.NewStatistics(r.statisticsService, r.contextManager, r.logger)

	mux.Handle("GET /api/statistics", guard.Handle(http.HandlerFunc(h.Get)))
}
