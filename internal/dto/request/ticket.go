package request

import "time"

type TicketedEventRequest struct {
	Name                     string     `json:"name" validate:"required,max=255"`
	Description              string     `json:"description,omitempty"`
	Date                     time.Time  `json:"date" validate:"required"`
	Location                 string     `json:"location,omitempty"`
	MaxTickets               *int       `json:"max_tickets,omitempty" validate:"omitempty,gt=0"`
	ContactEmail             string     `json:"contact_email" validate:"required,email"`
	TicketCost               float64    `json:"ticket_cost" validate:"gte=0"`
	AdvancePaymentRequired   bool       `json:"advance_payment_required"`
	ShowOnSite               bool       `json:"show_on_site"`
	PaymentOpen              bool       `json:"payment_open"`
	PaymentDueDate           *time.Time `json:"payment_due_date,omitempty"`
	PaymentTimeAllowed       *int       `json:"payment_time_allowed,omitempty" validate:"omitempty,gt=0"`
	EmailStudioWhenPurchased bool       `json:"email_studio_when_purchased"`
}

type OpenTicketPurchaseRequest struct {
	TicketedEventID string `json:"ticketed_event_id" validate:"required,uuid4"`
}

type AddTicketsRequest struct {
	Quantity  int    `json:"quantity" validate:"required,gt=0,max=20"`
	ExtraInfo string `json:"extra_info,omitempty" validate:"max=255"`
}
