package repository

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventTypeRepository interface {
	Create(ctx context.Context, et *entity.EventType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error)
	FindByCategoryAndSubtype(ctx context.Context, category entity.EventCategory, subtype string) (*entity.EventType, error)
	FindAll(ctx context.Context) ([]*entity.EventType, error)
	Update(ctx context.Context, et *entity.EventType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventTypeRepository(db database.PgxIface, log *zap.Logger) EventTypeRepository {
	return &eventTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "event_type")),
	}
}

func (r *eventTypeRepository) Create(ctx context.Context, et *entity.EventType) error {
	query := `
		INSERT INTO event_types (id, category, subtype, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		et.ID,
		et.Category,
		et.Subtype,
		et.CreatedAt,
		et.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event type",
			zap.Error(err),
			zap.String("subtype", et.Subtype),
		)
		return fmt.Errorf("create event type %s: %w", et.Subtype, err)
	}

	return nil
}

func (r *eventTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error) {
	query := `
		SELECT id, category, subtype, created_at, updated_at, deleted_at
		FROM event_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	var et entity.EventType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&et.ID,
		&et.Category,
		&et.Subtype,
		&et.CreatedAt,
		&et.UpdatedAt,
		&et.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event type",
			zap.Error(err),
			zap.String("event_type_id", id.String()),
		)
		return nil, fmt.Errorf("find event type %s: %w", id.String(), err)
	}

	return &et, nil
}

func (r *eventTypeRepository) FindByCategoryAndSubtype(ctx context.Context, category entity.EventCategory, subtype string) (*entity.EventType, error) {
	query := `
		SELECT id, category, subtype, created_at, updated_at, deleted_at
		FROM event_types
		WHERE category = $1 AND subtype = $2 AND deleted_at IS NULL
	`

	var et entity.EventType
	err := r.db.QueryRow(ctx, query, category, subtype).Scan(
		&et.ID,
		&et.Category,
		&et.Subtype,
		&et.CreatedAt,
		&et.UpdatedAt,
		&et.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event type by category and subtype",
			zap.Error(err),
			zap.String("subtype", subtype),
		)
		return nil, fmt.Errorf("find event type %s/%s: %w", category, subtype, err)
	}

	return &et, nil
}

func (r *eventTypeRepository) FindAll(ctx context.Context) ([]*entity.EventType, error) {
	query := `
		SELECT id, category, subtype, created_at, updated_at, deleted_at
		FROM event_types
		WHERE deleted_at IS NULL
		ORDER BY category, subtype
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list event types", zap.Error(err))
		return nil, fmt.Errorf("list event types: %w", err)
	}
	defer rows.Close()

	var types []*entity.EventType
	for rows.Next() {
		var et entity.EventType
		if err := rows.Scan(
			&et.ID,
			&et.Category,
			&et.Subtype,
			&et.CreatedAt,
			&et.UpdatedAt,
			&et.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		types = append(types, &et)
	}

	return types, rows.Err()
}

func (r *eventTypeRepository) Update(ctx context.Context, et *entity.EventType) error {
	query := `
		UPDATE event_types
		SET category = $2, subtype = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, et.ID, et.Category, et.Subtype, time.Now())
	if err != nil {
		r.log.Error("Failed to update event type",
			zap.Error(err),
			zap.String("event_type_id", et.ID.String()),
		)
		return fmt.Errorf("update event type %s: %w", et.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event type %s not found", et.ID.String())
	}

	return nil
}

func (r *eventTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE event_types
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete event type",
			zap.Error(err),
			zap.String("event_type_id", id.String()),
		)
		return fmt.Errorf("delete event type %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event type %s not found", id.String())
	}

	return nil
}
