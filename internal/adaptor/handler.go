package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Event       *EventHandler
	Booking     *BookingHandler
	Block       *BlockHandler
	WaitingList *WaitingListHandler
	Ticket      *TicketHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Event:       NewEventHandler(service.Event, log),
		Booking:     NewBookingHandler(service.Booking, log),
		Block:       NewBlockHandler(service.Block, log),
		WaitingList: NewWaitingListHandler(service.WaitingList, log),
		Ticket:      NewTicketHandler(service.Ticket, log),
	}
}

// handleServiceError maps usecase errors onto HTTP responses. Shared by
// all handlers so the state machine's sentinel errors always get the same
// status code.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrDuplicateBooking),
		errors.Is(err, usecase.ErrAttendanceConflict),
		errors.Is(err, usecase.ErrPurchaseConfirmed):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrEventFull),
		errors.Is(err, usecase.ErrBookingClosed),
		errors.Is(err, usecase.ErrEventCancelled),
		errors.Is(err, usecase.ErrNotCancellable),
		errors.Is(err, usecase.ErrAlreadyCancelled),
		errors.Is(err, usecase.ErrCannotReopen),
		errors.Is(err, usecase.ErrFreeEventPayment),
		errors.Is(err, usecase.ErrBlockNotUsable),
		errors.Is(err, usecase.ErrNoTickets):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "already"):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
