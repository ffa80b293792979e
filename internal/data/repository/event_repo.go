package repository

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventFilter narrows event listings; nil fields are skipped.
type EventFilter struct {
	EventTypeID *uuid.UUID
	From        *time.Time
	BookingOpen *bool
	Cancelled   *bool
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindAll(ctx context.Context, filter EventFilter, limit, offset int) ([]*entity.Event, error)
	CountAll(ctx context.Context, filter EventFilter) (int64, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

var eventColumns = []string{
	"id", "name", "event_type_id", "description", "date", "location",
	"max_participants", "contact_email", "cost", "advance_payment_required",
	"booking_open", "payment_open", "payment_due_date", "payment_time_allowed",
	"cancellation_period", "external_instructor", "email_studio_when_booked",
	"cancelled", "allow_booking_cancellation", "created_at", "updated_at",
	"deleted_at",
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var ev entity.Event
	err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.EventTypeID,
		&ev.Description,
		&ev.Date,
		&ev.Location,
		&ev.MaxParticipants,
		&ev.ContactEmail,
		&ev.Cost,
		&ev.AdvancePaymentRequired,
		&ev.BookingOpen,
		&ev.PaymentOpen,
		&ev.PaymentDueDate,
		&ev.PaymentTimeAllowed,
		&ev.CancellationPeriod,
		&ev.ExternalInstructor,
		&ev.EmailStudioWhenBooked,
		&ev.Cancelled,
		&ev.AllowBookingCancellation,
		&ev.CreatedAt,
		&ev.UpdatedAt,
		&ev.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, name, event_type_id, description, date, location,
		                   max_participants, contact_email, cost, advance_payment_required,
		                   booking_open, payment_open, payment_due_date, payment_time_allowed,
		                   cancellation_period, external_instructor, email_studio_when_booked,
		                   cancelled, allow_booking_cancellation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.EventTypeID,
		event.Description,
		event.Date,
		event.Location,
		event.MaxParticipants,
		event.ContactEmail,
		event.Cost,
		event.AdvancePaymentRequired,
		event.BookingOpen,
		event.PaymentOpen,
		event.PaymentDueDate,
		event.PaymentTimeAllowed,
		event.CancellationPeriod,
		event.ExternalInstructor,
		event.EmailStudioWhenBooked,
		event.Cancelled,
		event.AllowBookingCancellation,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("name", event.Name),
		)
		return fmt.Errorf("create event %s: %w", event.Name, err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	builder := psql.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id, "deleted_at": nil})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find event query: %w", err)
	}

	ev, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event %s: %w", id.String(), err)
	}

	return ev, nil
}

func (r *eventRepository) applyFilter(builder squirrel.SelectBuilder, filter EventFilter) squirrel.SelectBuilder {
	builder = builder.Where(squirrel.Eq{"deleted_at": nil})
	if filter.EventTypeID != nil {
		builder = builder.Where(squirrel.Eq{"event_type_id": *filter.EventTypeID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.BookingOpen != nil {
		builder = builder.Where(squirrel.Eq{"booking_open": *filter.BookingOpen})
	}
	if filter.Cancelled != nil {
		builder = builder.Where(squirrel.Eq{"cancelled": *filter.Cancelled})
	}
	return builder
}

func (r *eventRepository) FindAll(ctx context.Context, filter EventFilter, limit, offset int) ([]*entity.Event, error) {
	builder := r.applyFilter(psql.Select(eventColumns...).From("events"), filter).
		OrderBy("date").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list events", zap.Error(err))
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func (r *eventRepository) CountAll(ctx context.Context, filter EventFilter) (int64, error) {
	builder := r.applyFilter(psql.Select("COUNT(*)").From("events"), filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count events query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count events", zap.Error(err))
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $2, event_type_id = $3, description = $4, date = $5, location = $6,
		    max_participants = $7, contact_email = $8, cost = $9,
		    advance_payment_required = $10, booking_open = $11, payment_open = $12,
		    payment_due_date = $13, payment_time_allowed = $14, cancellation_period = $15,
		    external_instructor = $16, email_studio_when_booked = $17, cancelled = $18,
		    allow_booking_cancellation = $19, updated_at = $20
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.EventTypeID,
		event.Description,
		event.Date,
		event.Location,
		event.MaxParticipants,
		event.ContactEmail,
		event.Cost,
		event.AdvancePaymentRequired,
		event.BookingOpen,
		event.PaymentOpen,
		event.PaymentDueDate,
		event.PaymentTimeAllowed,
		event.CancellationPeriod,
		event.ExternalInstructor,
		event.EmailStudioWhenBooked,
		event.Cancelled,
		event.AllowBookingCancellation,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return fmt.Errorf("update event %s: %w", event.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", event.ID.String())
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE events
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("delete event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	return nil
}
