package request

type JoinWaitingListRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
}
