package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	// BookingOpen bookings occupy a space and are the only ones counted
	// against event capacity.
	BookingOpen BookingStatus = "open"
	// BookingCancelled bookings have released their space and their
	// payment state.
	BookingCancelled BookingStatus = "cancelled"
	// BookingNoShow bookings released their space but keep their payment
	// state; reachable only from open.
	BookingNoShow BookingStatus = "no_show"
)

type Booking struct {
	Base
	UserID               uuid.UUID     `db:"user_id"`
	EventID              uuid.UUID     `db:"event_id"`
	Status               BookingStatus `db:"status"`
	Paid                 bool          `db:"paid"`
	PaymentConfirmed     bool          `db:"payment_confirmed"`
	DatePaymentConfirmed *time.Time    `db:"date_payment_confirmed"`
	BlockID              *uuid.UUID    `db:"block_id"`
	Attended             bool          `db:"attended"`
	DateBooked           time.Time     `db:"date_booked"`
	DateRebooked         *time.Time    `db:"date_rebooked"`
	ReminderSent         bool          `db:"reminder_sent"`
	WarningSent          bool          `db:"warning_sent"`
	DateWarningSent      *time.Time    `db:"date_warning_sent"`
	FreeClassRequested   bool          `db:"free_class_requested"`
	FreeClass            bool          `db:"free_class"`
	AutoCancelled        bool          `db:"auto_cancelled"`
}

// Occupying reports whether this booking counts against event capacity.
func (b *Booking) Occupying() bool {
	return b.Status == BookingOpen
}

// LastBooked returns the timestamp the booking most recently claimed its
// space, used by the unpaid sweep's grace window.
func (b *Booking) LastBooked() time.Time {
	if b.DateRebooked != nil {
		return *b.DateRebooked
	}
	return b.DateBooked
}

// Normalize derives dependent payment state before a write. The first
// time payment_confirmed flips on, the confirmation date is stamped.
func (b *Booking) Normalize(now time.Time) {
	if b.PaymentConfirmed && b.DatePaymentConfirmed == nil {
		b.DatePaymentConfirmed = &now
	}
}

// SetFreeClass marks the booking as a granted free class. Free classes
// are always treated as paid and never consume a block credit. Idempotent.
func (b *Booking) SetFreeClass() {
	b.FreeClass = true
	b.Paid = true
	b.PaymentConfirmed = true
	b.BlockID = nil
}
