package usecase

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Cancel(ctx context.Context, userID, bookingID string, staff bool) (*response.BookingResponse, error)
	Reopen(ctx context.Context, userID, bookingID string) (*response.BookingResponse, error)
	GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Staff operations
	ConfirmPayment(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	AssignBlock(ctx context.Context, bookingID string, req *request.AssignBlockRequest) (*response.BookingResponse, error)
	RemoveBlock(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	SetFreeClass(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	MarkAttended(ctx context.Context, bookingID string, attended bool) (*response.BookingResponse, error)
	MarkNoShow(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

// logActivity writes an audit line; a failure to record it is logged and
// otherwise ignored, the primary mutation has already happened.
func (s *bookingService) logActivity(ctx context.Context, format string, args ...any) {
	if err := s.repo.ActivityLog.Log(ctx, fmt.Sprintf(format, args...)); err != nil {
		s.log.Error("Failed to write activity log", zap.Error(err))
	}
}

func (s *bookingService) loadBooking(ctx context.Context, bookingID string) (*entity.Booking, *entity.Event, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	event, err := s.repo.Event.FindByID(ctx, booking.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, fmt.Errorf("event for booking %s: %w", bookingID, ErrNotFound)
	}

	return booking, event, nil
}

func (s *bookingService) Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	eventUUID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", req.EventID, ErrNotFound)
	}
	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if !event.BookingOpen {
		return nil, ErrBookingClosed
	}

	// A cancelled or no-show row for this user and event is reused
	// rather than duplicated.
	existing, err := s.repo.Booking.FindByUserAndEvent(ctx, userUUID, eventUUID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == entity.BookingOpen {
			return nil, ErrDuplicateBooking
		}
		return s.Reopen(ctx, userID, existing.ID.String())
	}

	// Capacity is a read-then-write check; the last space can be lost to
	// a concurrent request.
	openCount, err := s.repo.Booking.CountOpenByEventID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event.SpacesLeft(openCount) <= 0 {
		return nil, ErrEventFull
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:             userUUID,
		EventID:            eventUUID,
		Status:             entity.BookingOpen,
		DateBooked:         now,
		FreeClassRequested: req.RequestFreeClass,
	}

	if req.BlockID != nil {
		blockUUID, err := uuid.Parse(*req.BlockID)
		if err != nil {
			return nil, fmt.Errorf("invalid block ID format %s: %w", *req.BlockID, err)
		}
		if err := s.applyBlock(ctx, booking, event, blockUUID); err != nil {
			return nil, err
		}
	}
	booking.Normalize(now)

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}

	// Booking removes the user from the event's waiting list.
	if err := s.repo.WaitingList.Remove(ctx, eventUUID, userUUID); err != nil {
		s.log.Error("Failed to remove waiting list entry after booking",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("event_id", req.EventID),
		)
	}

	s.logActivity(ctx, "Booking %s created for event %s by user %s",
		booking.ID, event.Name, userID)

	s.notifyBookingCreated(ctx, booking, event)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_id", req.EventID),
		zap.String("user_id", userID),
	)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) notifyBookingCreated(ctx context.Context, booking *entity.Booking, event *entity.Event) {
	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil || user == nil {
		s.log.Error("Failed to load user for booking confirmation",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	body := fmt.Sprintf(
		"Your booking for %s on %s has been received.\n\nPayment due: %s\n",
		event.Name,
		event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"),
		paymentSummary(event, booking),
	)
	s.notifier.Send(ctx, "booking confirmation", []string{user.Email},
		fmt.Sprintf("Booking received for %s", event.Name), body)

	if event.EmailStudioWhenBooked {
		s.notifier.SendStudio(ctx, "studio booking notification",
			fmt.Sprintf("%s has booked %s", user.Username, event.Name),
			fmt.Sprintf("%s (%s) has booked for %s on %s.\n",
				user.Username, user.Email, event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
	}
}

func paymentSummary(event *entity.Event, booking *entity.Booking) string {
	switch {
	case booking.Paid:
		return "nothing, this booking is paid"
	case event.Cost == 0:
		return "nothing, this event is free"
	case event.PaymentDueDate != nil:
		return event.PaymentDueDate.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")
	case event.PaymentTimeAllowed != nil:
		return fmt.Sprintf("within %d hours", *event.PaymentTimeAllowed)
	default:
		return fmt.Sprintf("%.2f before the event", event.Cost)
	}
}

// applyBlock attaches a block credit to the booking, marking it paid.
func (s *bookingService) applyBlock(ctx context.Context, booking *entity.Booking, event *entity.Event, blockID uuid.UUID) error {
	block, err := s.repo.Block.FindByID(ctx, blockID)
	if err != nil {
		return err
	}
	if block == nil || block.UserID != booking.UserID {
		return ErrBlockNotUsable
	}

	blockType, err := s.repo.BlockType.FindByID(ctx, block.BlockTypeID)
	if err != nil {
		return err
	}
	if blockType == nil || blockType.EventTypeID != event.EventTypeID {
		return ErrBlockNotUsable
	}

	used, err := s.repo.Booking.CountOpenByBlockID(ctx, block.ID)
	if err != nil {
		return err
	}
	if !block.Active(blockType, used, time.Now()) {
		return ErrBlockNotUsable
	}

	booking.BlockID = &block.ID
	booking.Paid = true
	booking.PaymentConfirmed = true
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string, staff bool) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !staff && booking.UserID.String() != userID {
		return nil, ErrForbidden
	}
	if booking.Status != entity.BookingOpen {
		return nil, ErrAlreadyCancelled
	}
	if !staff && !event.CanCancel(time.Now()) {
		return nil, ErrNotCancellable
	}

	openCount, err := s.repo.Booking.CountOpenByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	wasFull := event.SpacesLeft(openCount) == 0

	// Cancelling releases the space and the payment state. A block credit
	// goes back to the block; direct payments are reset and left for a
	// manual refund.
	booking.Status = entity.BookingCancelled
	booking.BlockID = nil
	booking.Paid = false
	booking.PaymentConfirmed = false
	booking.DatePaymentConfirmed = nil
	booking.ReminderSent = false
	booking.WarningSent = false
	booking.DateWarningSent = nil

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Booking %s for event %s cancelled by %s",
		booking.ID, event.Name, cancelActor(userID, staff))

	s.notifyCancelled(ctx, booking, event, wasFull)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_id", event.ID.String()),
		zap.Bool("staff", staff),
	)

	return response.BookingToResponse(booking, event), nil
}

func cancelActor(userID string, staff bool) string {
	if staff {
		return "staff"
	}
	return "user " + userID
}

func (s *bookingService) notifyCancelled(ctx context.Context, booking *entity.Booking, event *entity.Event, wasFull bool) {
	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err == nil && user != nil {
		s.notifier.Send(ctx, "booking cancellation", []string{user.Email},
			fmt.Sprintf("Booking for %s cancelled", event.Name),
			fmt.Sprintf("Your booking for %s on %s has been cancelled.\n",
				event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
	}

	if wasFull {
		s.notifyWaitingList(ctx, event)
	}
}

// notifyWaitingList tells everyone waiting for the event that a space has
// opened up. Notification only; nobody is booked automatically.
func (s *bookingService) notifyWaitingList(ctx context.Context, event *entity.Event) {
	entries, err := s.repo.WaitingList.FindByEventID(ctx, event.ID)
	if err != nil {
		s.log.Error("Failed to load waiting list",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return
	}
	if len(entries) == 0 {
		return
	}

	var emails []string
	for _, entry := range entries {
		user, err := s.repo.User.FindByID(ctx, entry.UserID)
		if err != nil || user == nil {
			continue
		}
		emails = append(emails, user.Email)
	}
	if len(emails) == 0 {
		return
	}

	s.notifier.SendBcc(ctx, "waiting list notification", emails,
		fmt.Sprintf("A space is available for %s", event.Name),
		fmt.Sprintf("A space has opened up for %s on %s. Spaces go to the first person to book.\n",
			event.Name,
			event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
}

func (s *bookingService) Reopen(ctx context.Context, userID, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID.String() != userID {
		return nil, ErrForbidden
	}
	if booking.Status == entity.BookingOpen {
		return nil, ErrCannotReopen
	}
	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if !event.BookingOpen {
		return nil, ErrBookingClosed
	}

	openCount, err := s.repo.Booking.CountOpenByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if event.SpacesLeft(openCount) <= 0 {
		return nil, ErrEventFull
	}

	now := time.Now()
	wasAutoCancelled := booking.AutoCancelled

	// Payment state is not restored on reopening; a booking cancelled
	// for non-payment starts the payment clock again from date_rebooked.
	booking.Status = entity.BookingOpen
	booking.DateRebooked = &now
	booking.AutoCancelled = false

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.repo.WaitingList.Remove(ctx, event.ID, booking.UserID); err != nil {
		s.log.Error("Failed to remove waiting list entry after reopening",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	if wasAutoCancelled {
		s.logActivity(ctx, "Booking %s for event %s reopened by user %s (previously auto-cancelled)",
			booking.ID, event.Name, userID)
	} else {
		s.logActivity(ctx, "Booking %s for event %s reopened by user %s",
			booking.ID, event.Name, userID)
	}

	s.notifyBookingCreated(ctx, booking, event)

	s.log.Info("Booking reopened",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_id", event.ID.String()),
	)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		event, err := s.repo.Event.FindByID(ctx, booking.EventID)
		if err != nil {
			return nil, err
		}
		items = append(items, *response.BookingToResponse(booking, event))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if event.Cost == 0 {
		return nil, ErrFreeEventPayment
	}

	booking.Paid = true
	booking.PaymentConfirmed = true
	booking.Normalize(time.Now())

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Payment confirmed for booking %s (event %s)", booking.ID, event.Name)

	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err == nil && user != nil {
		s.notifier.Send(ctx, "payment confirmation", []string{user.Email},
			fmt.Sprintf("Payment confirmed for %s", event.Name),
			fmt.Sprintf("Your payment for %s on %s has been confirmed. Thank you.\n",
				event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
	}

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) AssignBlock(ctx context.Context, bookingID string, req *request.AssignBlockRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	blockUUID, err := uuid.Parse(req.BlockID)
	if err != nil {
		return nil, fmt.Errorf("invalid block ID format %s: %w", req.BlockID, err)
	}

	if err := s.applyBlock(ctx, booking, event, blockUUID); err != nil {
		return nil, err
	}
	booking.Normalize(time.Now())

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Block %s assigned to booking %s (event %s)",
		req.BlockID, booking.ID, event.Name)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) RemoveBlock(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BlockID == nil {
		return nil, ErrBlockNotUsable
	}

	removed := *booking.BlockID
	booking.BlockID = nil
	booking.Paid = false
	booking.PaymentConfirmed = false
	booking.DatePaymentConfirmed = nil

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Block %s removed from booking %s (event %s)",
		removed, booking.ID, event.Name)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) SetFreeClass(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking.SetFreeClass()
	booking.Normalize(time.Now())

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Free class granted for booking %s (event %s)", booking.ID, event.Name)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) MarkAttended(ctx context.Context, bookingID string, attended bool) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if attended && booking.Status == entity.BookingNoShow {
		return nil, ErrAttendanceConflict
	}

	booking.Attended = attended

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Attendance for booking %s (event %s) set to %t",
		booking.ID, event.Name, attended)

	return response.BookingToResponse(booking, event), nil
}

func (s *bookingService) MarkNoShow(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, event, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// No-show is reachable only from open; the space is released but the
	// payment state stays as it was.
	if booking.Status != entity.BookingOpen {
		return nil, ErrAttendanceConflict
	}
	if booking.Attended {
		return nil, ErrAttendanceConflict
	}

	booking.Status = entity.BookingNoShow

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Booking %s (event %s) marked as no-show", booking.ID, event.Name)

	return response.BookingToResponse(booking, event), nil
}
