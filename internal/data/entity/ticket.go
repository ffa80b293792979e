package entity

import (
	"github.com/google/uuid"
)

type Ticket struct {
	Base
	TicketBookingID uuid.UUID `db:"ticket_booking_id"`
	ExtraInfo       string    `db:"extra_info"`
}
