package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// StatisticsService computes per-user counters.
type StatisticsService interface {
	ForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error)
}

// Statistics serves GET /api/statistics.
type Statistics struct {
	service        StatisticsService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewStatistics(service StatisticsService, contextManager model.ContextManager, logger *logger.Logger) *Statistics {
	return &Statistics{service: service, contextManager: contextManager, logger: logger}
}

func (h *Statistics) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.service.ForUser(r.Context(), principal.ID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
