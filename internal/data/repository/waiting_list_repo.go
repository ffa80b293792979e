package repository

import (
	"context"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WaitingListRepository interface {
	Add(ctx context.Context, entry *entity.WaitingListUser) error
	Remove(ctx context.Context, eventID, userID uuid.UUID) error
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.WaitingListUser, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.WaitingListUser, error)
}

type waitingListRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaitingListRepository(db database.PgxIface, log *zap.Logger) WaitingListRepository {
	return &waitingListRepository{
		db:  db,
		log: log.With(zap.String("repository", "waiting_list")),
	}
}

func (r *waitingListRepository) Add(ctx context.Context, entry *entity.WaitingListUser) error {
	query := `
		INSERT INTO waiting_list_users (id, event_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.EventID,
		entry.UserID,
		entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to add waiting list entry",
			zap.Error(err),
			zap.String("event_id", entry.EventID.String()),
			zap.String("user_id", entry.UserID.String()),
		)
		return fmt.Errorf("add waiting list entry: %w", err)
	}

	return nil
}

func (r *waitingListRepository) Remove(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `
		DELETE FROM waiting_list_users
		WHERE event_id = $1 AND user_id = $2
	`

	_, err := r.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		r.log.Error("Failed to remove waiting list entry",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("remove waiting list entry: %w", err)
	}

	return nil
}

func (r *waitingListRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.WaitingListUser, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM waiting_list_users
		WHERE event_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to list waiting list",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("list waiting list for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.WaitingListUser
	for rows.Next() {
		var entry entity.WaitingListUser
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.UserID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waiting list entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *waitingListRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.WaitingListUser, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM waiting_list_users
		WHERE user_id = $1 AND event_id = $2
	`

	var entry entity.WaitingListUser
	err := r.db.QueryRow(ctx, query, userID, eventID).Scan(
		&entry.ID,
		&entry.EventID,
		&entry.UserID,
		&entry.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find waiting list entry",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find waiting list entry: %w", err)
	}

	return &entry, nil
}
