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

type TicketService interface {
	GetUpcoming(ctx context.Context, req *request.PaginatedRequest) ([]*response.TicketedEventResponse, error)
	OpenPurchase(ctx context.Context, userID string, req *request.OpenTicketPurchaseRequest) (*response.TicketBookingResponse, error)
	AddTickets(ctx context.Context, userID, purchaseID string, req *request.AddTicketsRequest) (*response.TicketBookingResponse, error)
	ConfirmPurchase(ctx context.Context, userID, purchaseID string) (*response.TicketBookingResponse, error)
	CancelPurchase(ctx context.Context, userID, purchaseID string, staff bool) (*response.TicketBookingResponse, error)
	GetUserPurchases(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketBookingResponse], error)

	// Staff operations
	CreateEvent(ctx context.Context, req *request.TicketedEventRequest) (*response.TicketedEventResponse, error)
	UpdateEvent(ctx context.Context, eventID string, req *request.TicketedEventRequest) (*response.TicketedEventResponse, error)
	CancelEvent(ctx context.Context, eventID string) error
	ConfirmPayment(ctx context.Context, purchaseID string) (*response.TicketBookingResponse, error)
}

type ticketService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewTicketService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) TicketService {
	return &ticketService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) logActivity(ctx context.Context, format string, args ...any) {
	if err := s.repo.ActivityLog.Log(ctx, fmt.Sprintf(format, args...)); err != nil {
		s.log.Error("Failed to write activity log", zap.Error(err))
	}
}

func (s *ticketService) loadPurchase(ctx context.Context, purchaseID string) (*entity.TicketBooking, *entity.TicketedEvent, error) {
	id, err := uuid.Parse(purchaseID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid purchase ID format %s: %w", purchaseID, err)
	}

	purchase, err := s.repo.TicketBooking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if purchase == nil {
		return nil, nil, fmt.Errorf("ticket purchase %s: %w", purchaseID, ErrNotFound)
	}

	event, err := s.repo.TicketedEvent.FindByID(ctx, purchase.TicketedEventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, fmt.Errorf("ticketed event for purchase %s: %w", purchaseID, ErrNotFound)
	}

	return purchase, event, nil
}

func (s *ticketService) GetUpcoming(ctx context.Context, req *request.PaginatedRequest) ([]*response.TicketedEventResponse, error) {
	events, err := s.repo.TicketedEvent.FindUpcoming(ctx, time.Now(), req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	res := make([]*response.TicketedEventResponse, 0, len(events))
	for _, event := range events {
		sold, err := s.repo.Ticket.CountSoldForEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, response.TicketedEventToResponse(event, event.TicketsLeft(sold)))
	}

	return res, nil
}

func (s *ticketService) OpenPurchase(ctx context.Context, userID string, req *request.OpenTicketPurchaseRequest) (*response.TicketBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	eventUUID, err := uuid.Parse(req.TicketedEventID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticketed event ID format %s: %w", req.TicketedEventID, err)
	}

	event, err := s.repo.TicketedEvent.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("ticketed event %s: %w", req.TicketedEventID, ErrNotFound)
	}
	if event.Cancelled {
		return nil, ErrEventCancelled
	}

	sold, err := s.repo.Ticket.CountSoldForEvent(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event.TicketsLeft(sold) <= 0 {
		return nil, ErrEventFull
	}

	now := time.Now()
	purchase := &entity.TicketBooking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:           userUUID,
		TicketedEventID:  eventUUID,
		BookingReference: utils.GenerateBookingReference(),
		DateBooked:       now,
	}

	if err := s.repo.TicketBooking.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.log.Info("Ticket purchase opened",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("booking_reference", purchase.BookingReference),
		zap.String("user_id", userID),
	)

	return response.TicketBookingToResponse(purchase, 0), nil
}

func (s *ticketService) AddTickets(ctx context.Context, userID, purchaseID string, req *request.AddTicketsRequest) (*response.TicketBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	purchase, event, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID.String() != userID {
		return nil, ErrForbidden
	}
	if purchase.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	// Each ticket takes a capacity slot, checked against what is already
	// sold across all purchases.
	sold, err := s.repo.Ticket.CountSoldForEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if event.TicketsLeft(sold) < req.Quantity {
		return nil, ErrEventFull
	}

	now := time.Now()
	for i := 0; i < req.Quantity; i++ {
		ticket := &entity.Ticket{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			TicketBookingID: purchase.ID,
			ExtraInfo:       req.ExtraInfo,
		}
		if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
			return nil, err
		}
	}

	count, err := s.repo.Ticket.CountByBookingID(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}

	return response.TicketBookingToResponse(purchase, count), nil
}

func (s *ticketService) ConfirmPurchase(ctx context.Context, userID, purchaseID string) (*response.TicketBookingResponse, error) {
	purchase, event, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID.String() != userID {
		return nil, ErrForbidden
	}
	if purchase.PurchaseConfirmed {
		return nil, ErrPurchaseConfirmed
	}

	count, err := s.repo.Ticket.CountByBookingID(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoTickets
	}

	// The payment clock runs from confirmation, not from when the
	// shopping started.
	now := time.Now()
	purchase.PurchaseConfirmed = true
	purchase.DateBooked = now

	if err := s.repo.TicketBooking.Update(ctx, purchase); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Ticket purchase %s confirmed for %s (%d tickets)",
		purchase.BookingReference, event.Name, count)

	user, err := s.repo.User.FindByID(ctx, purchase.UserID)
	if err == nil && user != nil {
		s.notifier.Send(ctx, "ticket purchase confirmation", []string{user.Email},
			fmt.Sprintf("Ticket booking for %s", event.Name),
			fmt.Sprintf("Your purchase of %d ticket(s) for %s on %s is confirmed.\nBooking reference: %s\n",
				count, event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"),
				purchase.BookingReference))
	}

	if event.EmailStudioWhenPurchased {
		s.notifier.SendStudio(ctx, "studio ticket purchase notification",
			fmt.Sprintf("Tickets purchased for %s", event.Name),
			fmt.Sprintf("Purchase %s: %d ticket(s) for %s.\n",
				purchase.BookingReference, count, event.Name))
	}

	return response.TicketBookingToResponse(purchase, count), nil
}

func (s *ticketService) CancelPurchase(ctx context.Context, userID, purchaseID string, staff bool) (*response.TicketBookingResponse, error) {
	purchase, event, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if !staff && purchase.UserID.String() != userID {
		return nil, ErrForbidden
	}
	if purchase.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	purchase.Cancelled = true
	purchase.Paid = false

	if err := s.repo.TicketBooking.Update(ctx, purchase); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Ticket purchase %s for %s cancelled", purchase.BookingReference, event.Name)

	user, err := s.repo.User.FindByID(ctx, purchase.UserID)
	if err == nil && user != nil {
		s.notifier.Send(ctx, "ticket purchase cancellation", []string{user.Email},
			fmt.Sprintf("Ticket booking %s cancelled", purchase.BookingReference),
			fmt.Sprintf("Your ticket booking %s for %s has been cancelled.\n",
				purchase.BookingReference, event.Name))
	}

	count, err := s.repo.Ticket.CountByBookingID(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}

	return response.TicketBookingToResponse(purchase, count), nil
}

func (s *ticketService) GetUserPurchases(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketBookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	purchases, err := s.repo.TicketBooking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	items := make([]response.TicketBookingResponse, 0, len(purchases))
	for _, purchase := range purchases {
		count, err := s.repo.Ticket.CountByBookingID(ctx, purchase.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *response.TicketBookingToResponse(purchase, count))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, int64(len(items))), nil
}

func (s *ticketService) eventFromRequest(req *request.TicketedEventRequest) *entity.TicketedEvent {
	return &entity.TicketedEvent{
		Name:                     req.Name,
		Description:              req.Description,
		Date:                     req.Date,
		Location:                 req.Location,
		MaxTickets:               req.MaxTickets,
		ContactEmail:             req.ContactEmail,
		TicketCost:               req.TicketCost,
		AdvancePaymentRequired:   req.AdvancePaymentRequired,
		ShowOnSite:               req.ShowOnSite,
		PaymentOpen:              req.PaymentOpen,
		PaymentDueDate:           req.PaymentDueDate,
		PaymentTimeAllowed:       req.PaymentTimeAllowed,
		EmailStudioWhenPurchased: req.EmailStudioWhenPurchased,
	}
}

func (s *ticketService) CreateEvent(ctx context.Context, req *request.TicketedEventRequest) (*response.TicketedEventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	event := s.eventFromRequest(req)
	event.Base = entity.Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	event.Normalize()

	if err := s.repo.TicketedEvent.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("Ticketed event created",
		zap.String("ticketed_event_id", event.ID.String()),
		zap.String("name", event.Name),
	)

	return response.TicketedEventToResponse(event, event.TicketsLeft(0)), nil
}

func (s *ticketService) UpdateEvent(ctx context.Context, eventID string, req *request.TicketedEventRequest) (*response.TicketedEventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticketed event ID format %s: %w", eventID, err)
	}

	existing, err := s.repo.TicketedEvent.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("ticketed event %s: %w", eventID, ErrNotFound)
	}

	event := s.eventFromRequest(req)
	event.Base = existing.Base
	event.Cancelled = existing.Cancelled
	event.Normalize()

	if err := s.repo.TicketedEvent.Update(ctx, event); err != nil {
		return nil, err
	}

	sold, err := s.repo.Ticket.CountSoldForEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return response.TicketedEventToResponse(event, event.TicketsLeft(sold)), nil
}

func (s *ticketService) CancelEvent(ctx context.Context, eventID string) error {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid ticketed event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.TicketedEvent.FindByID(ctx, eventUUID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("ticketed event %s: %w", eventID, ErrNotFound)
	}
	if event.Cancelled {
		return ErrEventCancelled
	}

	event.Cancelled = true
	event.ShowOnSite = false
	event.PaymentOpen = false

	if err := s.repo.TicketedEvent.Update(ctx, event); err != nil {
		return err
	}

	s.logActivity(ctx, "Ticketed event %s cancelled", event.Name)

	s.log.Info("Ticketed event cancelled", zap.String("ticketed_event_id", eventID))

	return nil
}

func (s *ticketService) ConfirmPayment(ctx context.Context, purchaseID string) (*response.TicketBookingResponse, error) {
	purchase, event, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if event.TicketCost == 0 {
		return nil, ErrFreeEventPayment
	}

	purchase.Paid = true

	if err := s.repo.TicketBooking.Update(ctx, purchase); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Payment confirmed for ticket purchase %s (%s)",
		purchase.BookingReference, event.Name)

	count, err := s.repo.Ticket.CountByBookingID(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}

	return response.TicketBookingToResponse(purchase, count), nil
}
