package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type EventTypeResponse struct {
	ID       string               `json:"id"`
	Category entity.EventCategory `json:"category"`
	Subtype  string               `json:"subtype"`
}

type EventResponse struct {
	ID                       string             `json:"id"`
	Name                     string             `json:"name"`
	EventType                *EventTypeResponse `json:"event_type,omitempty"`
	Description              string             `json:"description,omitempty"`
	Date                     time.Time          `json:"date"`
	Location                 string             `json:"location,omitempty"`
	MaxParticipants          *int               `json:"max_participants,omitempty"`
	SpacesLeft               int                `json:"spaces_left"`
	ContactEmail             string             `json:"contact_email"`
	Cost                     float64            `json:"cost"`
	AdvancePaymentRequired   bool               `json:"advance_payment_required"`
	BookingOpen              bool               `json:"booking_open"`
	PaymentOpen              bool               `json:"payment_open"`
	PaymentDueDate           *time.Time         `json:"payment_due_date,omitempty"`
	PaymentTimeAllowed       *int               `json:"payment_time_allowed,omitempty"`
	CancellationPeriod       int                `json:"cancellation_period"`
	ExternalInstructor       bool               `json:"external_instructor"`
	Cancelled                bool               `json:"cancelled"`
	AllowBookingCancellation bool               `json:"allow_booking_cancellation"`
}

func EventTypeToResponse(et *entity.EventType) *EventTypeResponse {
	return &EventTypeResponse{
		ID:       et.ID.String(),
		Category: et.Category,
		Subtype:  et.Subtype,
	}
}

func EventToResponse(ev *entity.Event, et *entity.EventType, spacesLeft int) *EventResponse {
	res := &EventResponse{
		ID:                       ev.ID.String(),
		Name:                     ev.Name,
		Description:              ev.Description,
		Date:                     ev.Date,
		Location:                 ev.Location,
		MaxParticipants:          ev.MaxParticipants,
		SpacesLeft:               spacesLeft,
		ContactEmail:             ev.ContactEmail,
		Cost:                     ev.Cost,
		AdvancePaymentRequired:   ev.AdvancePaymentRequired,
		BookingOpen:              ev.BookingOpen,
		PaymentOpen:              ev.PaymentOpen,
		PaymentDueDate:           ev.PaymentDueDate,
		PaymentTimeAllowed:       ev.PaymentTimeAllowed,
		CancellationPeriod:       ev.CancellationPeriod,
		ExternalInstructor:       ev.ExternalInstructor,
		Cancelled:                ev.Cancelled,
		AllowBookingCancellation: ev.AllowBookingCancellation,
	}
	if et != nil {
		res.EventType = EventTypeToResponse(et)
	}
	return res
}
