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

// BookingWithEvent is a joined row for the reconciliation sweeps, which
// need the event's payment policy alongside each booking.
type BookingWithEvent struct {
	Booking entity.Booking
	Event   entity.Event
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindOpenByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Booking, error)
	CountOpenByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
	FindByBlockID(ctx context.Context, blockID uuid.UUID) ([]*entity.Booking, error)
	CountOpenByBlockID(ctx context.Context, blockID uuid.UUID) (int, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// FindUnpaidOpenForUpcoming returns open unpaid non-free-class
	// bookings for upcoming costed events that require advance payment.
	// The cancel and warning sweeps narrow this set in Go.
	FindUnpaidOpenForUpcoming(ctx context.Context, now time.Time) ([]*BookingWithEvent, error)
	// FindForReminders returns open bookings for upcoming events that
	// enter the reminder window at now and have not been reminded yet.
	FindForReminders(ctx context.Context, now time.Time) ([]*BookingWithEvent, error)
	// LatestAttendedClassDate returns the date of the user's most recent
	// attended class booking, excluding the given event subtype. Nil when
	// the user never attended one.
	LatestAttendedClassDate(ctx context.Context, userID uuid.UUID, excludeSubtype string) (*time.Time, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, event_id, status, paid, payment_confirmed,
	       date_payment_confirmed, block_id, attended, date_booked, date_rebooked,
	       reminder_sent, warning_sent, date_warning_sent, free_class_requested,
	       free_class, auto_cancelled, created_at, updated_at, deleted_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.EventID,
		&b.Status,
		&b.Paid,
		&b.PaymentConfirmed,
		&b.DatePaymentConfirmed,
		&b.BlockID,
		&b.Attended,
		&b.DateBooked,
		&b.DateRebooked,
		&b.ReminderSent,
		&b.WarningSent,
		&b.DateWarningSent,
		&b.FreeClassRequested,
		&b.FreeClass,
		&b.AutoCancelled,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, event_id, status, paid, payment_confirmed,
		                     date_payment_confirmed, block_id, attended, date_booked,
		                     date_rebooked, reminder_sent, warning_sent, date_warning_sent,
		                     free_class_requested, free_class, auto_cancelled,
		                     created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.EventID,
		booking.Status,
		booking.Paid,
		booking.PaymentConfirmed,
		booking.DatePaymentConfirmed,
		booking.BlockID,
		booking.Attended,
		booking.DateBooked,
		booking.DateRebooked,
		booking.ReminderSent,
		booking.WarningSent,
		booking.DateWarningSent,
		booking.FreeClassRequested,
		booking.FreeClass,
		booking.AutoCancelled,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("event_id", booking.EventID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND event_id = $2 AND deleted_at IS NULL
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, userID, eventID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by user and event",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find booking for user %s event %s: %w",
			userID.String(), eventID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY date_booked DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list bookings for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindOpenByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY date_booked
	`

	rows, err := r.db.Query(ctx, query, eventID, entity.BookingOpen)
	if err != nil {
		r.log.Error("Failed to list open bookings for event",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("list open bookings for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// CountOpenByEventID counts only open bookings; cancelled and no-show
// rows do not occupy a space.
func (r *bookingRepository) CountOpenByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE event_id = $1 AND status = $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, eventID, entity.BookingOpen).Scan(&count); err != nil {
		r.log.Error("Failed to count open bookings",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count open bookings for event %s: %w", eventID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByBlockID(ctx context.Context, blockID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE block_id = $1 AND deleted_at IS NULL
		ORDER BY date_booked
	`

	rows, err := r.db.Query(ctx, query, blockID)
	if err != nil {
		r.log.Error("Failed to list bookings for block",
			zap.Error(err),
			zap.String("block_id", blockID.String()),
		)
		return nil, fmt.Errorf("list bookings for block %s: %w", blockID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountOpenByBlockID(ctx context.Context, blockID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE block_id = $1 AND status = $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, blockID, entity.BookingOpen).Scan(&count); err != nil {
		r.log.Error("Failed to count block bookings",
			zap.Error(err),
			zap.String("block_id", blockID.String()),
		)
		return 0, fmt.Errorf("count bookings for block %s: %w", blockID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, paid = $3, payment_confirmed = $4, date_payment_confirmed = $5,
		    block_id = $6, attended = $7, date_rebooked = $8, reminder_sent = $9,
		    warning_sent = $10, date_warning_sent = $11, free_class_requested = $12,
		    free_class = $13, auto_cancelled = $14, updated_at = $15
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.Paid,
		booking.PaymentConfirmed,
		booking.DatePaymentConfirmed,
		booking.BlockID,
		booking.Attended,
		booking.DateRebooked,
		booking.ReminderSent,
		booking.WarningSent,
		booking.DateWarningSent,
		booking.FreeClassRequested,
		booking.FreeClass,
		booking.AutoCancelled,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

var bookingJoinColumns = []string{
	"b.id", "b.user_id", "b.event_id", "b.status", "b.paid", "b.payment_confirmed",
	"b.date_payment_confirmed", "b.block_id", "b.attended", "b.date_booked",
	"b.date_rebooked", "b.reminder_sent", "b.warning_sent", "b.date_warning_sent",
	"b.free_class_requested", "b.free_class", "b.auto_cancelled",
	"b.created_at", "b.updated_at", "b.deleted_at",
	"e.id", "e.name", "e.event_type_id", "e.description", "e.date", "e.location",
	"e.max_participants", "e.contact_email", "e.cost", "e.advance_payment_required",
	"e.booking_open", "e.payment_open", "e.payment_due_date", "e.payment_time_allowed",
	"e.cancellation_period", "e.external_instructor", "e.email_studio_when_booked",
	"e.cancelled", "e.allow_booking_cancellation", "e.created_at", "e.updated_at",
	"e.deleted_at",
}

func scanBookingWithEvent(rows pgx.Rows) (*BookingWithEvent, error) {
	var row BookingWithEvent
	b, ev := &row.Booking, &row.Event
	err := rows.Scan(
		&b.ID, &b.UserID, &b.EventID, &b.Status, &b.Paid, &b.PaymentConfirmed,
		&b.DatePaymentConfirmed, &b.BlockID, &b.Attended, &b.DateBooked,
		&b.DateRebooked, &b.ReminderSent, &b.WarningSent, &b.DateWarningSent,
		&b.FreeClassRequested, &b.FreeClass, &b.AutoCancelled,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
		&ev.ID, &ev.Name, &ev.EventTypeID, &ev.Description, &ev.Date, &ev.Location,
		&ev.MaxParticipants, &ev.ContactEmail, &ev.Cost, &ev.AdvancePaymentRequired,
		&ev.BookingOpen, &ev.PaymentOpen, &ev.PaymentDueDate, &ev.PaymentTimeAllowed,
		&ev.CancellationPeriod, &ev.ExternalInstructor, &ev.EmailStudioWhenBooked,
		&ev.Cancelled, &ev.AllowBookingCancellation, &ev.CreatedAt, &ev.UpdatedAt,
		&ev.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *bookingRepository) queryJoined(ctx context.Context, builder squirrel.SelectBuilder, what string) ([]*BookingWithEvent, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings with events",
			zap.Error(err),
			zap.String("query", what),
		)
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var result []*BookingWithEvent
	for rows.Next() {
		row, err := scanBookingWithEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", what, err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *bookingRepository) FindUnpaidOpenForUpcoming(ctx context.Context, now time.Time) ([]*BookingWithEvent, error) {
	builder := psql.Select(bookingJoinColumns...).
		From("bookings b").
		Join("events e ON e.id = b.event_id").
		Where(squirrel.Eq{
			"b.status":                   entity.BookingOpen,
			"b.paid":                     false,
			"b.free_class":               false,
			"b.deleted_at":               nil,
			"e.advance_payment_required": true,
			"e.cancelled":                false,
			"e.deleted_at":               nil,
		}).
		Where(squirrel.Gt{"e.date": now, "e.cost": 0}).
		OrderBy("e.date", "b.date_booked")

	return r.queryJoined(ctx, builder, "find unpaid open bookings")
}

func (r *bookingRepository) FindForReminders(ctx context.Context, now time.Time) ([]*BookingWithEvent, error) {
	builder := psql.Select(bookingJoinColumns...).
		From("bookings b").
		Join("events e ON e.id = b.event_id").
		Where(squirrel.Eq{
			"b.status":        entity.BookingOpen,
			"b.reminder_sent": false,
			"b.deleted_at":    nil,
			"e.cancelled":     false,
			"e.deleted_at":    nil,
		}).
		Where(squirrel.Gt{"e.date": now}).
		Where(squirrel.Expr(
			"e.date <= ? + (e.cancellation_period + 24) * INTERVAL '1 hour'", now,
		)).
		OrderBy("e.date", "b.date_booked")

	return r.queryJoined(ctx, builder, "find bookings for reminders")
}

func (r *bookingRepository) LatestAttendedClassDate(ctx context.Context, userID uuid.UUID, excludeSubtype string) (*time.Time, error) {
	query := `
		SELECT MAX(e.date)
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		JOIN event_types et ON et.id = e.event_type_id
		WHERE b.user_id = $1
		  AND b.attended = TRUE
		  AND et.category = $2
		  AND et.subtype <> $3
		  AND b.deleted_at IS NULL
	`

	var latest *time.Time
	err := r.db.QueryRow(ctx, query, userID, entity.CategoryClass, excludeSubtype).Scan(&latest)
	if err != nil {
		r.log.Error("Failed to find latest attended class",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("latest attended class for user %s: %w", userID.String(), err)
	}

	return latest, nil
}
