package entity

import (
	"time"

	"github.com/google/uuid"

	"studio-booking/pkg/utils"
)

// UnlimitedSpaces is reported by SpacesLeft when an event has no
// max_participants set.
const UnlimitedSpaces = 100

type Event struct {
	Base
	Name                     string     `db:"name"`
	EventTypeID              uuid.UUID  `db:"event_type_id"`
	Description              string     `db:"description"`
	Date                     time.Time  `db:"date"`
	Location                 string     `db:"location"`
	MaxParticipants          *int       `db:"max_participants"`
	ContactEmail             string     `db:"contact_email"`
	Cost                     float64    `db:"cost"`
	AdvancePaymentRequired   bool       `db:"advance_payment_required"`
	BookingOpen              bool       `db:"booking_open"`
	PaymentOpen              bool       `db:"payment_open"`
	PaymentDueDate           *time.Time `db:"payment_due_date"`
	PaymentTimeAllowed       *int       `db:"payment_time_allowed"`
	CancellationPeriod       int        `db:"cancellation_period"`
	ExternalInstructor       bool       `db:"external_instructor"`
	EmailStudioWhenBooked    bool       `db:"email_studio_when_booked"`
	Cancelled                bool       `db:"cancelled"`
	AllowBookingCancellation bool       `db:"allow_booking_cancellation"`
}

// Normalize applies the field dependencies that must hold before every
// write:
//   - free events cannot require or accept payment
//   - a payment due date implies advance payment and snaps to the end of
//     its local calendar day
//   - a payment time allowance implies advance payment
//   - external instructor events are booked directly with the instructor,
//     so booking and payment stay closed and the studio gets notified
func (e *Event) Normalize() {
	if e.Cost == 0 {
		e.AdvancePaymentRequired = false
		e.PaymentOpen = false
		e.PaymentDueDate = nil
		e.PaymentTimeAllowed = nil
	}
	if e.PaymentDueDate != nil {
		due := utils.EndOfDay(*e.PaymentDueDate)
		e.PaymentDueDate = &due
		e.AdvancePaymentRequired = true
	}
	if e.PaymentTimeAllowed != nil {
		e.AdvancePaymentRequired = true
	}
	if e.ExternalInstructor {
		e.BookingOpen = false
		e.PaymentOpen = false
		e.EmailStudioWhenBooked = true
	}
}

// SpacesLeft reports remaining capacity given the current count of open
// bookings. Cancelled and no-show bookings do not occupy a space.
func (e *Event) SpacesLeft(openBookings int) int {
	if e.MaxParticipants == nil {
		return UnlimitedSpaces
	}
	spaces := *e.MaxParticipants - openBookings
	if spaces < 0 {
		return 0
	}
	return spaces
}

// Bookable reports whether new bookings are currently accepted.
func (e *Event) Bookable(openBookings int, now time.Time) bool {
	if !e.BookingOpen || e.SpacesLeft(openBookings) <= 0 {
		return false
	}
	if e.PaymentDueDate != nil && !e.PaymentDueDate.After(now) {
		return false
	}
	return true
}

// CanCancel reports whether a booking for this event can still be
// cancelled at time now, i.e. whether the event is further away than the
// cancellation period.
//
// The period is counted in wall-clock hours as a user would: if now and
// the event date fall on opposite sides of a DST transition, the elapsed
// UTC hours differ from the local ones by the offset change, so the
// period is adjusted by that difference. A 24h period before a
// spring-forward class means the 23 real hours from 9.30am the day before
// still count as outside the period.
func (e *Event) CanCancel(now time.Time) bool {
	if !e.AllowBookingCancellation {
		return false
	}

	hoursUntilEvent := e.Date.Sub(now).Hours()

	period := float64(e.CancellationPeriod)
	loc := utils.StudioLocation()
	_, nowOffset := now.In(loc).Zone()
	_, eventOffset := e.Date.In(loc).Zone()
	period += float64(nowOffset-eventOffset) / 3600

	return hoursUntilEvent > period
}
