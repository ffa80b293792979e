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

type TicketedEventRepository interface {
	Create(ctx context.Context, event *entity.TicketedEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketedEvent, error)
	FindUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]*entity.TicketedEvent, error)
	Update(ctx context.Context, event *entity.TicketedEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketedEventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketedEventRepository(db database.PgxIface, log *zap.Logger) TicketedEventRepository {
	return &ticketedEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticketed_event")),
	}
}

const ticketedEventColumns = `id, name, description, date, location, max_tickets,
	       contact_email, ticket_cost, advance_payment_required, show_on_site,
	       payment_open, payment_due_date, payment_time_allowed,
	       email_studio_when_purchased, cancelled, created_at, updated_at, deleted_at`

func scanTicketedEvent(row pgx.Row) (*entity.TicketedEvent, error) {
	var ev entity.TicketedEvent
	err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.Description,
		&ev.Date,
		&ev.Location,
		&ev.MaxTickets,
		&ev.ContactEmail,
		&ev.TicketCost,
		&ev.AdvancePaymentRequired,
		&ev.ShowOnSite,
		&ev.PaymentOpen,
		&ev.PaymentDueDate,
		&ev.PaymentTimeAllowed,
		&ev.EmailStudioWhenPurchased,
		&ev.Cancelled,
		&ev.CreatedAt,
		&ev.UpdatedAt,
		&ev.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *ticketedEventRepository) Create(ctx context.Context, event *entity.TicketedEvent) error {
	query := `
		INSERT INTO ticketed_events (id, name, description, date, location, max_tickets,
		                            contact_email, ticket_cost, advance_payment_required,
		                            show_on_site, payment_open, payment_due_date,
		                            payment_time_allowed, email_studio_when_purchased,
		                            cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Description,
		event.Date,
		event.Location,
		event.MaxTickets,
		event.ContactEmail,
		event.TicketCost,
		event.AdvancePaymentRequired,
		event.ShowOnSite,
		event.PaymentOpen,
		event.PaymentDueDate,
		event.PaymentTimeAllowed,
		event.EmailStudioWhenPurchased,
		event.Cancelled,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticketed event",
			zap.Error(err),
			zap.String("name", event.Name),
		)
		return fmt.Errorf("create ticketed event %s: %w", event.Name, err)
	}

	return nil
}

func (r *ticketedEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketedEvent, error) {
	query := `
		SELECT ` + ticketedEventColumns + `
		FROM ticketed_events
		WHERE id = $1 AND deleted_at IS NULL
	`

	ev, err := scanTicketedEvent(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticketed event",
			zap.Error(err),
			zap.String("ticketed_event_id", id.String()),
		)
		return nil, fmt.Errorf("find ticketed event %s: %w", id.String(), err)
	}

	return ev, nil
}

func (r *ticketedEventRepository) FindUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]*entity.TicketedEvent, error) {
	query := `
		SELECT ` + ticketedEventColumns + `
		FROM ticketed_events
		WHERE date > $1 AND show_on_site = TRUE AND cancelled = FALSE
		  AND deleted_at IS NULL
		ORDER BY date
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, now, limit, offset)
	if err != nil {
		r.log.Error("Failed to list upcoming ticketed events", zap.Error(err))
		return nil, fmt.Errorf("list upcoming ticketed events: %w", err)
	}
	defer rows.Close()

	var events []*entity.TicketedEvent
	for rows.Next() {
		ev, err := scanTicketedEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticketed event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func (r *ticketedEventRepository) Update(ctx context.Context, event *entity.TicketedEvent) error {
	query := `
		UPDATE ticketed_events
		SET name = $2, description = $3, date = $4, location = $5, max_tickets = $6,
		    contact_email = $7, ticket_cost = $8, advance_payment_required = $9,
		    show_on_site = $10, payment_open = $11, payment_due_date = $12,
		    payment_time_allowed = $13, email_studio_when_purchased = $14,
		    cancelled = $15, updated_at = $16
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Description,
		event.Date,
		event.Location,
		event.MaxTickets,
		event.ContactEmail,
		event.TicketCost,
		event.AdvancePaymentRequired,
		event.ShowOnSite,
		event.PaymentOpen,
		event.PaymentDueDate,
		event.PaymentTimeAllowed,
		event.EmailStudioWhenPurchased,
		event.Cancelled,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update ticketed event",
			zap.Error(err),
			zap.String("ticketed_event_id", event.ID.String()),
		)
		return fmt.Errorf("update ticketed event %s: %w", event.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticketed event %s not found", event.ID.String())
	}

	return nil
}

func (r *ticketedEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE ticketed_events
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete ticketed event",
			zap.Error(err),
			zap.String("ticketed_event_id", id.String()),
		)
		return fmt.Errorf("delete ticketed event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticketed event %s not found", id.String())
	}

	return nil
}
