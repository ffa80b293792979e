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

type EventService interface {
	GetByID(ctx context.Context, eventID string) (*response.EventResponse, error)
	GetEvents(ctx context.Context, req *request.PaginatedRequest, upcomingOnly bool) (*response.PaginatedResponse[response.EventResponse], error)

	// Staff operations
	CreateEventType(ctx context.Context, req *request.CreateEventTypeRequest) (*response.EventTypeResponse, error)
	GetEventTypes(ctx context.Context) ([]*response.EventTypeResponse, error)
	Create(ctx context.Context, req *request.EventRequest) (*response.EventResponse, error)
	Update(ctx context.Context, eventID string, req *request.EventRequest) (*response.EventResponse, error)
	CancelEvent(ctx context.Context, eventID string) error
}

type eventService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewEventService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) EventService {
	return &eventService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "event")),
	}
}

func (s *eventService) logActivity(ctx context.Context, format string, args ...any) {
	if err := s.repo.ActivityLog.Log(ctx, fmt.Sprintf(format, args...)); err != nil {
		s.log.Error("Failed to write activity log", zap.Error(err))
	}
}

func (s *eventService) CreateEventType(ctx context.Context, req *request.CreateEventTypeRequest) (*response.EventTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	category := entity.EventCategory(req.Category)

	existing, err := s.repo.EventType.FindByCategoryAndSubtype(ctx, category, req.Subtype)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("event type %s/%s already exists", req.Category, req.Subtype)
	}

	now := time.Now()
	et := &entity.EventType{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Category: category,
		Subtype:  req.Subtype,
	}

	if err := s.repo.EventType.Create(ctx, et); err != nil {
		return nil, err
	}

	return response.EventTypeToResponse(et), nil
}

func (s *eventService) GetEventTypes(ctx context.Context) ([]*response.EventTypeResponse, error) {
	types, err := s.repo.EventType.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*response.EventTypeResponse, 0, len(types))
	for _, et := range types {
		res = append(res, response.EventTypeToResponse(et))
	}
	return res, nil
}

func (s *eventService) eventFromRequest(req *request.EventRequest, eventTypeID uuid.UUID) *entity.Event {
	return &entity.Event{
		Name:                     req.Name,
		EventTypeID:              eventTypeID,
		Description:              req.Description,
		Date:                     req.Date,
		Location:                 req.Location,
		MaxParticipants:          req.MaxParticipants,
		ContactEmail:             req.ContactEmail,
		Cost:                     req.Cost,
		AdvancePaymentRequired:   req.AdvancePaymentRequired,
		BookingOpen:              req.BookingOpen,
		PaymentOpen:              req.PaymentOpen,
		PaymentDueDate:           req.PaymentDueDate,
		PaymentTimeAllowed:       req.PaymentTimeAllowed,
		CancellationPeriod:       req.CancellationPeriod,
		ExternalInstructor:       req.ExternalInstructor,
		EmailStudioWhenBooked:    req.EmailStudioWhenBooked,
		AllowBookingCancellation: req.AllowBookingCancellation,
	}
}

func (s *eventService) Create(ctx context.Context, req *request.EventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventTypeUUID, err := uuid.Parse(req.EventTypeID)
	if err != nil {
		return nil, fmt.Errorf("invalid event type ID format %s: %w", req.EventTypeID, err)
	}

	eventType, err := s.repo.EventType.FindByID(ctx, eventTypeUUID)
	if err != nil {
		return nil, err
	}
	if eventType == nil {
		return nil, fmt.Errorf("event type %s: %w", req.EventTypeID, ErrNotFound)
	}

	now := time.Now()
	event := s.eventFromRequest(req, eventTypeUUID)
	event.Base = entity.Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	event.Normalize()

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name),
		zap.Time("date", event.Date),
	)

	return response.EventToResponse(event, eventType, event.SpacesLeft(0)), nil
}

func (s *eventService) Update(ctx context.Context, eventID string, req *request.EventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}
	eventTypeUUID, err := uuid.Parse(req.EventTypeID)
	if err != nil {
		return nil, fmt.Errorf("invalid event type ID format %s: %w", req.EventTypeID, err)
	}

	existing, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	eventType, err := s.repo.EventType.FindByID(ctx, eventTypeUUID)
	if err != nil {
		return nil, err
	}
	if eventType == nil {
		return nil, fmt.Errorf("event type %s: %w", req.EventTypeID, ErrNotFound)
	}

	event := s.eventFromRequest(req, eventTypeUUID)
	event.Base = existing.Base
	event.Cancelled = existing.Cancelled
	event.Normalize()

	if err := s.repo.Event.Update(ctx, event); err != nil {
		return nil, err
	}

	openCount, err := s.repo.Booking.CountOpenByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return response.EventToResponse(event, eventType, event.SpacesLeft(openCount)), nil
}

func (s *eventService) GetByID(ctx context.Context, eventID string) (*response.EventResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	eventType, err := s.repo.EventType.FindByID(ctx, event.EventTypeID)
	if err != nil {
		return nil, err
	}

	openCount, err := s.repo.Booking.CountOpenByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return response.EventToResponse(event, eventType, event.SpacesLeft(openCount)), nil
}

func (s *eventService) GetEvents(ctx context.Context, req *request.PaginatedRequest, upcomingOnly bool) (*response.PaginatedResponse[response.EventResponse], error) {
	filter := repository.EventFilter{}
	if upcomingOnly {
		now := time.Now()
		notCancelled := false
		filter.From = &now
		filter.Cancelled = &notCancelled
	}

	events, err := s.repo.Event.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Event.CountAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]response.EventResponse, 0, len(events))
	for _, event := range events {
		eventType, err := s.repo.EventType.FindByID(ctx, event.EventTypeID)
		if err != nil {
			return nil, err
		}
		openCount, err := s.repo.Booking.CountOpenByEventID(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *response.EventToResponse(event, eventType, event.SpacesLeft(openCount)))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// CancelEvent cancels the event and every open booking on it. Block
// credits are freed; direct payments keep their paid flags so staff can
// sort out refunds manually.
func (s *eventService) CancelEvent(ctx context.Context, eventID string) error {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if event.Cancelled {
		return ErrEventCancelled
	}

	event.Cancelled = true
	event.BookingOpen = false
	event.PaymentOpen = false

	if err := s.repo.Event.Update(ctx, event); err != nil {
		return err
	}

	open, err := s.repo.Booking.FindOpenByEventID(ctx, eventUUID)
	if err != nil {
		return err
	}

	var affected []string
	for _, booking := range open {
		booking.Status = entity.BookingCancelled
		if booking.BlockID != nil {
			booking.BlockID = nil
			booking.Paid = false
			booking.PaymentConfirmed = false
			booking.DatePaymentConfirmed = nil
			s.logActivity(ctx, "Booking %s cancelled with event %s, block credit freed",
				booking.ID, event.Name)
		} else if booking.Paid {
			s.logActivity(ctx, "Booking %s cancelled with event %s, direct payment left for manual refund",
				booking.ID, event.Name)
		} else {
			s.logActivity(ctx, "Booking %s cancelled with event %s", booking.ID, event.Name)
		}

		if err := s.repo.Booking.Update(ctx, booking); err != nil {
			return err
		}

		user, err := s.repo.User.FindByID(ctx, booking.UserID)
		if err != nil || user == nil {
			continue
		}
		affected = append(affected, user.Email)
		s.notifier.Send(ctx, "event cancellation", []string{user.Email},
			fmt.Sprintf("%s has been cancelled", event.Name),
			fmt.Sprintf("%s on %s has been cancelled and your booking with it.\n",
				event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
	}

	s.logActivity(ctx, "Event %s cancelled (%d open bookings cancelled)", event.Name, len(open))

	s.notifier.SendStudio(ctx, "event cancellation summary",
		fmt.Sprintf("%s cancelled", event.Name),
		fmt.Sprintf("%s on %s was cancelled. %d open bookings were cancelled, %d users notified.\n",
			event.Name,
			event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"),
			len(open), len(affected)))

	s.log.Info("Event cancelled",
		zap.String("event_id", eventID),
		zap.Int("bookings_cancelled", len(open)),
	)

	return nil
}
