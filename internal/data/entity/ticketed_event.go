package entity

import (
	"time"

	"studio-booking/pkg/utils"
)

// UnlimitedTickets is reported by TicketsLeft when a ticketed event has no
// max_tickets set.
const UnlimitedTickets = 10000

// TicketedEvent is a show or party sold by the ticket rather than booked
// as a class. Purchases are grouped into TicketBookings holding one or
// more Tickets.
type TicketedEvent struct {
	Base
	Name                     string     `db:"name"`
	Description              string     `db:"description"`
	Date                     time.Time  `db:"date"`
	Location                 string     `db:"location"`
	MaxTickets               *int       `db:"max_tickets"`
	ContactEmail             string     `db:"contact_email"`
	TicketCost               float64    `db:"ticket_cost"`
	AdvancePaymentRequired   bool       `db:"advance_payment_required"`
	ShowOnSite               bool       `db:"show_on_site"`
	PaymentOpen              bool       `db:"payment_open"`
	PaymentDueDate           *time.Time `db:"payment_due_date"`
	PaymentTimeAllowed       *int       `db:"payment_time_allowed"`
	EmailStudioWhenPurchased bool       `db:"email_studio_when_purchased"`
	Cancelled                bool       `db:"cancelled"`
}

// Normalize applies the same field dependencies as Event.Normalize for
// the ticketed variant.
func (e *TicketedEvent) Normalize() {
	if e.TicketCost == 0 {
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
}

// TicketsLeft reports remaining capacity given the count of tickets on
// open ticket bookings.
func (e *TicketedEvent) TicketsLeft(ticketsSold int) int {
	if e.MaxTickets == nil {
		return UnlimitedTickets
	}
	left := *e.MaxTickets - ticketsSold
	if left < 0 {
		return 0
	}
	return left
}
