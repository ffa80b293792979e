package request

import "time"

type CreateEventTypeRequest struct {
	Category string `json:"category" validate:"required,oneof=class event"`
	Subtype  string `json:"subtype" validate:"required,max=100"`
}

type EventRequest struct {
	Name                     string     `json:"name" validate:"required,max=255"`
	EventTypeID              string     `json:"event_type_id" validate:"required,uuid4"`
	Description              string     `json:"description,omitempty"`
	Date                     time.Time  `json:"date" validate:"required"`
	Location                 string     `json:"location,omitempty"`
	MaxParticipants          *int       `json:"max_participants,omitempty" validate:"omitempty,gt=0"`
	ContactEmail             string     `json:"contact_email" validate:"required,email"`
	Cost                     float64    `json:"cost" validate:"gte=0"`
	AdvancePaymentRequired   bool       `json:"advance_payment_required"`
	BookingOpen              bool       `json:"booking_open"`
	PaymentOpen              bool       `json:"payment_open"`
	PaymentDueDate           *time.Time `json:"payment_due_date,omitempty"`
	PaymentTimeAllowed       *int       `json:"payment_time_allowed,omitempty" validate:"omitempty,gt=0"`
	CancellationPeriod       int        `json:"cancellation_period" validate:"gte=0"`
	ExternalInstructor       bool       `json:"external_instructor"`
	EmailStudioWhenBooked    bool       `json:"email_studio_when_booked"`
	AllowBookingCancellation bool       `json:"allow_booking_cancellation"`
}
