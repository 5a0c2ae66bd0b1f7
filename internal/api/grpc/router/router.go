package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/tasktracker-server/internal/api/grpc/handler"
	"github.com/dtroode/tasktracker-server/internal/api/grpc/middleware"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Router represents a gRPC router for task tracker operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	statisticsService handler.StatisticsService
	authenticator     middleware.Authenticator
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - statisticsService: The per-user statistics service
//   - authenticator: Resolves bearer tokens to principals
//   - contextManager: Carries the principal to handlers
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	statisticsService handler.StatisticsService,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		statisticsService: statisticsService,
		authenticator:     authenticator,
		contextManager:    contextManager,
		logger:            logger,
	}
}

// authRequired exempts the health service from authentication.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

// Register registers all gRPC services and middleware.
// It sets up the gRPC server with request logging and authentication interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)
	r.registerStatisticsRoutes(s)
	r.registerHealth(s)

	return s
}

func (r *Router) registerStatisticsRoutes(server *grpc.Server) {
	statisticsHandler := handler.NewStatistics(r.statisticsService, r.contextManager, r.logger)
	server.RegisterService(&handler.StatisticsServiceDesc, statisticsHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	hs := health.NewServer()
	hs.SetServingStatus(handler.StatisticsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)
}
