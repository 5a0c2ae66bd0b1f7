package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var _ model.StatisticsStore = (*StatisticsRepository)(nil)

type StatisticsRepository struct {
	db DB
}

func NewStatisticsRepository(db DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// CountForUser counts projects owned by userID and tasks created by userID.
func (r *StatisticsRepository) CountForUser(ctx context.Context, userID uuid.UUID) (model.Statistics, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM projects WHERE owner_id = $1),
            (SELECT COUNT(*) FROM tasks WHERE user_id = $1),
            (SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed)
    `

	var s model.Statistics
	if err := r.db.QueryRow(ctx, query, userID).Scan(&s.ProjectCount, &s.TaskCount, &s.CompletedTaskCount); err != nil {
		return model.Statistics{}, fmt.Errorf("failed to count statistics: %w", err)
	}
	return s, nil
}
