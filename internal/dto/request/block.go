package request

type CreateBlockTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Identifier  *string `json:"identifier,omitempty" validate:"omitempty,max=100"`
	EventTypeID string  `json:"event_type_id" validate:"required,uuid4"`
	Size        int     `json:"size" validate:"required,gt=0"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	// Exactly one of duration_months and duration_weeks must be set.
	DurationMonths *int `json:"duration_months,omitempty" validate:"omitempty,gt=0"`
	DurationWeeks  *int `json:"duration_weeks,omitempty" validate:"omitempty,gt=0"`
	Active         bool `json:"active"`
}

type PurchaseBlockRequest struct {
	BlockTypeID string `json:"block_type_id" validate:"required,uuid4"`
}
