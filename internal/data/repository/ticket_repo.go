package repository

import (
	"context"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error)
	CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int, error)
	// CountSoldForEvent counts tickets on non-cancelled purchases, which
	// is what capacity checks compare against max_tickets.
	CountSoldForEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, ticket_booking_id, extra_info, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.TicketBookingID,
		ticket.ExtraInfo,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("ticket_booking_id", ticket.TicketBookingID.String()),
		)
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT id, ticket_booking_id, extra_info, created_at, updated_at, deleted_at
		FROM tickets
		WHERE ticket_booking_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to list tickets",
			zap.Error(err),
			zap.String("ticket_booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list tickets for purchase %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var t entity.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.TicketBookingID,
			&t.ExtraInfo,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}

	return tickets, rows.Err()
}

func (r *ticketRepository) CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM tickets
		WHERE ticket_booking_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, bookingID).Scan(&count); err != nil {
		r.log.Error("Failed to count tickets",
			zap.Error(err),
			zap.String("ticket_booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("count tickets for purchase %s: %w", bookingID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) CountSoldForEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		JOIN ticket_bookings tb ON tb.id = t.ticket_booking_id
		WHERE tb.ticketed_event_id = $1
		  AND tb.cancelled = FALSE
		  AND t.deleted_at IS NULL
		  AND tb.deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		r.log.Error("Failed to count sold tickets",
			zap.Error(err),
			zap.String("ticketed_event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count sold tickets for event %s: %w", eventID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tickets WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s not found", id.String())
	}

	return nil
}
