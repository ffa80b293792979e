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

// TicketBookingWithEvent is a joined row for the ticket sweeps.
type TicketBookingWithEvent struct {
	TicketBooking entity.TicketBooking
	Event         entity.TicketedEvent
}

type TicketBookingRepository interface {
	Create(ctx context.Context, tb *entity.TicketBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketBooking, error)
	FindByReference(ctx context.Context, reference string) (*entity.TicketBooking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.TicketBooking, error)
	Update(ctx context.Context, tb *entity.TicketBooking) error
	// HardDelete removes the purchase and its tickets outright; used only
	// for abandoned unconfirmed purchases.
	HardDelete(ctx context.Context, id uuid.UUID) error

	// FindUnpaidConfirmed returns confirmed unpaid purchases for upcoming
	// costed events requiring advance payment.
	FindUnpaidConfirmed(ctx context.Context, now time.Time) ([]*TicketBookingWithEvent, error)
	// FindUnconfirmedBefore returns unconfirmed unpaid purchases made
	// before the cutoff, for the purge sweep.
	FindUnconfirmedBefore(ctx context.Context, cutoff time.Time) ([]*entity.TicketBooking, error)
}

type ticketBookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketBookingRepository(db database.PgxIface, log *zap.Logger) TicketBookingRepository {
	return &ticketBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket_booking")),
	}
}

const ticketBookingColumns = `id, user_id, ticketed_event_id, booking_reference, paid,
	       purchase_confirmed, date_booked, date_rebooked, cancelled, reminder_sent,
	       warning_sent, date_warning_sent, created_at, updated_at, deleted_at`

func scanTicketBooking(row pgx.Row) (*entity.TicketBooking, error) {
	var tb entity.TicketBooking
	err := row.Scan(
		&tb.ID,
		&tb.UserID,
		&tb.TicketedEventID,
		&tb.BookingReference,
		&tb.Paid,
		&tb.PurchaseConfirmed,
		&tb.DateBooked,
		&tb.DateRebooked,
		&tb.Cancelled,
		&tb.ReminderSent,
		&tb.WarningSent,
		&tb.DateWarningSent,
		&tb.CreatedAt,
		&tb.UpdatedAt,
		&tb.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tb, nil
}

func (r *ticketBookingRepository) Create(ctx context.Context, tb *entity.TicketBooking) error {
	query := `
		INSERT INTO ticket_bookings (id, user_id, ticketed_event_id, booking_reference,
		                            paid, purchase_confirmed, date_booked, date_rebooked,
		                            cancelled, reminder_sent, warning_sent,
		                            date_warning_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		tb.ID,
		tb.UserID,
		tb.TicketedEventID,
		tb.BookingReference,
		tb.Paid,
		tb.PurchaseConfirmed,
		tb.DateBooked,
		tb.DateRebooked,
		tb.Cancelled,
		tb.ReminderSent,
		tb.WarningSent,
		tb.DateWarningSent,
		tb.CreatedAt,
		tb.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket booking",
			zap.Error(err),
			zap.String("user_id", tb.UserID.String()),
			zap.String("booking_reference", tb.BookingReference),
		)
		return fmt.Errorf("create ticket booking: %w", err)
	}

	return nil
}

func (r *ticketBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketBooking, error) {
	query := `
		SELECT ` + ticketBookingColumns + `
		FROM ticket_bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	tb, err := scanTicketBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket booking",
			zap.Error(err),
			zap.String("ticket_booking_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket booking %s: %w", id.String(), err)
	}

	return tb, nil
}

func (r *ticketBookingRepository) FindByReference(ctx context.Context, reference string) (*entity.TicketBooking, error) {
	query := `
		SELECT ` + ticketBookingColumns + `
		FROM ticket_bookings
		WHERE booking_reference = $1 AND deleted_at IS NULL
	`

	tb, err := scanTicketBooking(r.db.QueryRow(ctx, query, reference))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket booking by reference",
			zap.Error(err),
			zap.String("booking_reference", reference),
		)
		return nil, fmt.Errorf("find ticket booking %s: %w", reference, err)
	}

	return tb, nil
}

func (r *ticketBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.TicketBooking, error) {
	query := `
		SELECT ` + ticketBookingColumns + `
		FROM ticket_bookings
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY date_booked DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list user ticket bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list ticket bookings for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.TicketBooking
	for rows.Next() {
		tb, err := scanTicketBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket booking: %w", err)
		}
		bookings = append(bookings, tb)
	}

	return bookings, rows.Err()
}

func (r *ticketBookingRepository) Update(ctx context.Context, tb *entity.TicketBooking) error {
	query := `
		UPDATE ticket_bookings
		SET paid = $2, purchase_confirmed = $3, date_rebooked = $4, cancelled = $5,
		    reminder_sent = $6, warning_sent = $7, date_warning_sent = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		tb.ID,
		tb.Paid,
		tb.PurchaseConfirmed,
		tb.DateRebooked,
		tb.Cancelled,
		tb.ReminderSent,
		tb.WarningSent,
		tb.DateWarningSent,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update ticket booking",
			zap.Error(err),
			zap.String("ticket_booking_id", tb.ID.String()),
		)
		return fmt.Errorf("update ticket booking %s: %w", tb.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket booking %s not found", tb.ID.String())
	}

	return nil
}

func (r *ticketBookingRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	// Tickets first, then the purchase itself.
	if _, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE ticket_booking_id = $1`, id); err != nil {
		r.log.Error("Failed to delete tickets for purchase",
			zap.Error(err),
			zap.String("ticket_booking_id", id.String()),
		)
		return fmt.Errorf("delete tickets for purchase %s: %w", id.String(), err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM ticket_bookings WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete ticket booking",
			zap.Error(err),
			zap.String("ticket_booking_id", id.String()),
		)
		return fmt.Errorf("delete ticket booking %s: %w", id.String(), err)
	}

	return nil
}

var ticketBookingJoinColumns = []string{
	"tb.id", "tb.user_id", "tb.ticketed_event_id", "tb.booking_reference", "tb.paid",
	"tb.purchase_confirmed", "tb.date_booked", "tb.date_rebooked", "tb.cancelled",
	"tb.reminder_sent", "tb.warning_sent", "tb.date_warning_sent",
	"tb.created_at", "tb.updated_at", "tb.deleted_at",
	"e.id", "e.name", "e.description", "e.date", "e.location", "e.max_tickets",
	"e.contact_email", "e.ticket_cost", "e.advance_payment_required", "e.show_on_site",
	"e.payment_open", "e.payment_due_date", "e.payment_time_allowed",
	"e.email_studio_when_purchased", "e.cancelled", "e.created_at", "e.updated_at",
	"e.deleted_at",
}

func (r *ticketBookingRepository) FindUnpaidConfirmed(ctx context.Context, now time.Time) ([]*TicketBookingWithEvent, error) {
	builder := psql.Select(ticketBookingJoinColumns...).
		From("ticket_bookings tb").
		Join("ticketed_events e ON e.id = tb.ticketed_event_id").
		Where(squirrel.Eq{
			"tb.purchase_confirmed":      true,
			"tb.paid":                    false,
			"tb.cancelled":               false,
			"tb.deleted_at":              nil,
			"e.advance_payment_required": true,
			"e.cancelled":                false,
			"e.deleted_at":               nil,
		}).
		Where(squirrel.Gt{"e.date": now, "e.ticket_cost": 0}).
		OrderBy("e.date", "tb.date_booked")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unpaid ticket bookings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find unpaid ticket bookings", zap.Error(err))
		return nil, fmt.Errorf("find unpaid ticket bookings: %w", err)
	}
	defer rows.Close()

	var result []*TicketBookingWithEvent
	for rows.Next() {
		var row TicketBookingWithEvent
		tb, ev := &row.TicketBooking, &row.Event
		err := rows.Scan(
			&tb.ID, &tb.UserID, &tb.TicketedEventID, &tb.BookingReference, &tb.Paid,
			&tb.PurchaseConfirmed, &tb.DateBooked, &tb.DateRebooked, &tb.Cancelled,
			&tb.ReminderSent, &tb.WarningSent, &tb.DateWarningSent,
			&tb.CreatedAt, &tb.UpdatedAt, &tb.DeletedAt,
			&ev.ID, &ev.Name, &ev.Description, &ev.Date, &ev.Location, &ev.MaxTickets,
			&ev.ContactEmail, &ev.TicketCost, &ev.AdvancePaymentRequired, &ev.ShowOnSite,
			&ev.PaymentOpen, &ev.PaymentDueDate, &ev.PaymentTimeAllowed,
			&ev.EmailStudioWhenPurchased, &ev.Cancelled, &ev.CreatedAt, &ev.UpdatedAt,
			&ev.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan unpaid ticket booking row: %w", err)
		}
		result = append(result, &row)
	}

	return result, rows.Err()
}

func (r *ticketBookingRepository) FindUnconfirmedBefore(ctx context.Context, cutoff time.Time) ([]*entity.TicketBooking, error) {
	query := `
		SELECT ` + ticketBookingColumns + `
		FROM ticket_bookings
		WHERE purchase_confirmed = FALSE AND paid = FALSE AND cancelled = FALSE
		  AND date_booked < $1 AND deleted_at IS NULL
		ORDER BY date_booked
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to find unconfirmed ticket bookings", zap.Error(err))
		return nil, fmt.Errorf("find unconfirmed ticket bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.TicketBooking
	for rows.Next() {
		tb, err := scanTicketBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket booking: %w", err)
		}
		bookings = append(bookings, tb)
	}

	return bookings, rows.Err()
}
