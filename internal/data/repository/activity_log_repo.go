package repository

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityLogRepository interface {
	Log(ctx context.Context, message string) error
	FindRecent(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}

type activityLogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewActivityLogRepository(db database.PgxIface, log *zap.Logger) ActivityLogRepository {
	return &activityLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "activity_log")),
	}
}

func (r *activityLogRepository) Log(ctx context.Context, message string) error {
	query := `
		INSERT INTO activity_logs (id, message, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, uuid.New(), message, time.Now())
	if err != nil {
		r.log.Error("Failed to write activity log",
			zap.Error(err),
			zap.String("message", message),
		)
		return fmt.Errorf("write activity log: %w", err)
	}

	return nil
}

func (r *activityLogRepository) FindRecent(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, message, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list activity logs", zap.Error(err))
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.ActivityLog
	for rows.Next() {
		var al entity.ActivityLog
		if err := rows.Scan(&al.ID, &al.Message, &al.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, &al)
	}

	return logs, rows.Err()
}
