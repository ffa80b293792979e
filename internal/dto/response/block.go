package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type BlockTypeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Identifier     *string `json:"identifier,omitempty"`
	EventTypeID    string  `json:"event_type_id"`
	Size           int     `json:"size"`
	Cost           float64 `json:"cost"`
	DurationMonths *int    `json:"duration_months,omitempty"`
	DurationWeeks  *int    `json:"duration_weeks,omitempty"`
	Active         bool    `json:"active"`
}

type BlockResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	BlockType     *BlockTypeResponse `json:"block_type,omitempty"`
	StartDate     time.Time          `json:"start_date"`
	ExpiryDate    time.Time          `json:"expiry_date"`
	Paid          bool               `json:"paid"`
	BookingsMade  int                `json:"bookings_made"`
	Active        bool               `json:"active"`
}

func BlockTypeToResponse(bt *entity.BlockType) *BlockTypeResponse {
	return &BlockTypeResponse{
		ID:             bt.ID.String(),
		Name:           bt.Name,
		Identifier:     bt.Identifier,
		EventTypeID:    bt.EventTypeID.String(),
		Size:           bt.Size,
		Cost:           bt.Cost,
		DurationMonths: bt.DurationMonths,
		DurationWeeks:  bt.DurationWeeks,
		Active:         bt.Active,
	}
}

func BlockToResponse(b *entity.Block, bt *entity.BlockType, bookingsMade int, active bool) *BlockResponse {
	res := &BlockResponse{
		ID:           b.ID.String(),
		UserID:       b.UserID.String(),
		StartDate:    b.StartDate,
		ExpiryDate:   b.ExpiryDate,
		Paid:         b.Paid,
		BookingsMade: bookingsMade,
		Active:       active,
	}
	if bt != nil {
		res.BlockType = BlockTypeToResponse(bt)
	}
	return res
}
