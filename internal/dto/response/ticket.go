package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type TicketedEventResponse struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Description            string     `json:"description,omitempty"`
	Date                   time.Time  `json:"date"`
	Location               string     `json:"location,omitempty"`
	MaxTickets             *int       `json:"max_tickets,omitempty"`
	TicketsLeft            int        `json:"tickets_left"`
	ContactEmail           string     `json:"contact_email"`
	TicketCost             float64    `json:"ticket_cost"`
	AdvancePaymentRequired bool       `json:"advance_payment_required"`
	PaymentOpen            bool       `json:"payment_open"`
	PaymentDueDate         *time.Time `json:"payment_due_date,omitempty"`
	Cancelled              bool       `json:"cancelled"`
}

type TicketBookingResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	TicketedEventID   string     `json:"ticketed_event_id"`
	BookingReference  string     `json:"booking_reference"`
	Paid              bool       `json:"paid"`
	PurchaseConfirmed bool       `json:"purchase_confirmed"`
	Cancelled         bool       `json:"cancelled"`
	DateBooked        time.Time  `json:"date_booked"`
	TicketCount       int        `json:"ticket_count"`
}

func TicketedEventToResponse(ev *entity.TicketedEvent, ticketsLeft int) *TicketedEventResponse {
	return &TicketedEventResponse{
		ID:                     ev.ID.String(),
		Name:                   ev.Name,
		Description:            ev.Description,
		Date:                   ev.Date,
		Location:               ev.Location,
		MaxTickets:             ev.MaxTickets,
		TicketsLeft:            ticketsLeft,
		ContactEmail:           ev.ContactEmail,
		TicketCost:             ev.TicketCost,
		AdvancePaymentRequired: ev.AdvancePaymentRequired,
		PaymentOpen:            ev.PaymentOpen,
		PaymentDueDate:         ev.PaymentDueDate,
		Cancelled:              ev.Cancelled,
	}
}

func TicketBookingToResponse(tb *entity.TicketBooking, ticketCount int) *TicketBookingResponse {
	return &TicketBookingResponse{
		ID:                tb.ID.String(),
		UserID:            tb.UserID.String(),
		TicketedEventID:   tb.TicketedEventID.String(),
		BookingReference:  tb.BookingReference,
		Paid:              tb.Paid,
		PurchaseConfirmed: tb.PurchaseConfirmed,
		Cancelled:         tb.Cancelled,
		DateBooked:        tb.DateBooked,
		TicketCount:       ticketCount,
	}
}
