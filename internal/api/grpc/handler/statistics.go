package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

const (
	StatisticsServiceName     = "tasktracker.v1.Statistics"
	GetStatisticsFullMethod   = "/" + StatisticsServiceName + "/GetStatistics"
	statisticsServiceMetadata = "tasktracker/v1/statistics.proto"
)

// StatisticsServer is the server API for the tasktracker.v1.Statistics service.
// Both messages are well-known types, so no generated code is needed.
type StatisticsServer interface {
	GetStatistics(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// StatisticsServiceDesc describes tasktracker.v1.Statistics for grpc.Server.RegisterService.
var StatisticsServiceDesc = grpc.ServiceDesc{
	ServiceName: StatisticsServiceName,
	HandlerType: (*StatisticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatistics",
			Handler:    getStatisticsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: statisticsServiceMetadata,
}

func getStatisticsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatisticsServer).GetStatistics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatisticsFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatisticsServer).GetStatistics(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// StatisticsService computes per-user counters.
type StatisticsService interface {
	ForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error)
}

// Statistics serves tasktracker.v1.Statistics.
type Statistics struct {
	service        StatisticsService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewStatistics creates the statistics gRPC handler.
func NewStatistics(service StatisticsService, contextManager model.ContextManager, logger *logger.Logger) *Statistics {
	return &Statistics{service: service, contextManager: contextManager, logger: logger}
}

var _ StatisticsServer = (*Statistics)(nil)

// GetStatistics returns the caller's project, task and completed task counts.
func (h *Statistics) GetStatistics(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "Unauthorized")
	}

	stats, err := h.service.ForUser(ctx, principal.ID)
	if err != nil {
		return nil, handleError(err)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"projectCount":       stats.ProjectCount,
		"taskCount":          stats.TaskCount,
		"completedTaskCount": stats.CompletedTaskCount,
	})
	if err != nil {
		h.logger.Error("Statistics handler: failed to build response", "error", err.Error())
		return nil, status.Error(codes.Internal, "Server error")
	}

	return resp, nil
}
