package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Statistics serves per-user counters to every transport.
type Statistics struct {
	store  model.StatisticsStore
	logger *logger.Logger
}

func NewStatistics(store model.StatisticsStore, logger *logger.Logger) *Statistics {
	return &Statistics{store: store, logger: logger}
}

func (s *Statistics) ForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error) {
	stats, err := s.store.CountForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Statistics service: failed to count", "user_id", userID, "error", err.Error())
		return model.Statistics{}, model.NewErrInternal(fmt.Errorf("failed to count statistics: %w", err))
	}
	return stats, nil
}
