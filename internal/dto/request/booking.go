package request

type CreateBookingRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
	// BlockID optionally pays for the booking with a block credit.
	BlockID           *string `json:"block_id,omitempty" validate:"omitempty,uuid4"`
	RequestFreeClass  bool    `json:"request_free_class,omitempty"`
}

type AssignBlockRequest struct {
	BlockID string `json:"block_id" validate:"required,uuid4"`
}

type RegisterAttendanceRequest struct {
	Attended bool `json:"attended"`
}
