package entity

import (
	"time"

	"github.com/google/uuid"
)

// TicketBooking groups the tickets of one purchase. A purchase starts
// unconfirmed while the user adds tickets; unconfirmed purchases are
// purged by the reconciliation sweep.
type TicketBooking struct {
	Base
	UserID             uuid.UUID  `db:"user_id"`
	TicketedEventID    uuid.UUID  `db:"ticketed_event_id"`
	BookingReference   string     `db:"booking_reference"`
	Paid               bool       `db:"paid"`
	PurchaseConfirmed  bool       `db:"purchase_confirmed"`
	DateBooked         time.Time  `db:"date_booked"`
	DateRebooked       *time.Time `db:"date_rebooked"`
	Cancelled          bool       `db:"cancelled"`
	ReminderSent       bool       `db:"reminder_sent"`
	WarningSent        bool       `db:"warning_sent"`
	DateWarningSent    *time.Time `db:"date_warning_sent"`
}

// LastBooked returns the timestamp the purchase was most recently made or
// remade, used by the unpaid sweep's relative deadline.
func (tb *TicketBooking) LastBooked() time.Time {
	if tb.DateRebooked != nil {
		return *tb.DateRebooked
	}
	return tb.DateBooked
}
