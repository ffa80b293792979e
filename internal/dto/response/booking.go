package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	UserID           string               `json:"user_id"`
	EventID          string               `json:"event_id"`
	EventName        string               `json:"event_name,omitempty"`
	EventDate        *time.Time           `json:"event_date,omitempty"`
	Status           entity.BookingStatus `json:"status"`
	Paid             bool                 `json:"paid"`
	PaymentConfirmed bool                 `json:"payment_confirmed"`
	BlockID          *string              `json:"block_id,omitempty"`
	Attended         bool                 `json:"attended"`
	DateBooked       time.Time            `json:"date_booked"`
	DateRebooked     *time.Time           `json:"date_rebooked,omitempty"`
	FreeClass        bool                 `json:"free_class"`
	AutoCancelled    bool                 `json:"auto_cancelled"`
}

func BookingToResponse(b *entity.Booking, ev *entity.Event) *BookingResponse {
	res := &BookingResponse{
		ID:               b.ID.String(),
		UserID:           b.UserID.String(),
		EventID:          b.EventID.String(),
		Status:           b.Status,
		Paid:             b.Paid,
		PaymentConfirmed: b.PaymentConfirmed,
		Attended:         b.Attended,
		DateBooked:       b.DateBooked,
		DateRebooked:     b.DateRebooked,
		FreeClass:        b.FreeClass,
		AutoCancelled:    b.AutoCancelled,
	}
	if b.BlockID != nil {
		id := b.BlockID.String()
		res.BlockID = &id
	}
	if ev != nil {
		res.EventName = ev.Name
		res.EventDate = &ev.Date
	}
	return res
}
