package entity

import (
	"github.com/google/uuid"
)

// WaitingListUser records a user waiting for a space on a full event.
// One row per (event, user); removed when the user books or leaves.
type WaitingListUser struct {
	BaseSimple
	EventID uuid.UUID `db:"event_id"`
	UserID  uuid.UUID `db:"user_id"`
}
