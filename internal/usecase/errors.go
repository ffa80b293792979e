package usecase

import "errors"

// Domain violations surface as sentinel errors so handlers can map them to
// the right HTTP status without string matching.
var (
	ErrEventFull          = errors.New("capacity exceeded")
	ErrBookingClosed      = errors.New("booking is closed for this event")
	ErrDuplicateBooking   = errors.New("an open booking already exists for this event")
	ErrCannotReopen       = errors.New("booking cannot be reopened")
	ErrNotCancellable     = errors.New("booking can no longer be cancelled")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrFreeEventPayment   = errors.New("payment cannot be confirmed for a free event")
	ErrBlockNotUsable     = errors.New("block is not active or does not cover this event type")
	ErrAttendanceConflict = errors.New("attended and no-show are mutually exclusive")
	ErrEventCancelled     = errors.New("event is cancelled")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("operation not permitted for this user")
	ErrPurchaseConfirmed  = errors.New("ticket purchase is already confirmed")
	ErrNoTickets          = errors.New("ticket purchase has no tickets")
)
