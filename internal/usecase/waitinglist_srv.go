package usecase

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WaitingListService interface {
	Join(ctx context.Context, userID string, req *request.JoinWaitingListRequest) error
	Leave(ctx context.Context, userID, eventID string) error
}

type waitingListService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewWaitingListService(repo *repository.Repository, log *zap.Logger) WaitingListService {
	return &waitingListService{
		repo: repo,
		log:  log.With(zap.String("service", "waiting_list")),
	}
}

func (s *waitingListService) Join(ctx context.Context, userID string, req *request.JoinWaitingListRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	eventUUID, err := uuid.Parse(req.EventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %s: %w", req.EventID, ErrNotFound)
	}
	if event.Cancelled {
		return ErrEventCancelled
	}

	entry := &entity.WaitingListUser{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		EventID: eventUUID,
		UserID:  userUUID,
	}

	if err := s.repo.WaitingList.Add(ctx, entry); err != nil {
		return err
	}

	s.log.Info("User joined waiting list",
		zap.String("user_id", userID),
		zap.String("event_id", req.EventID),
	)

	return nil
}

func (s *waitingListService) Leave(ctx context.Context, userID, eventID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	if err := s.repo.WaitingList.Remove(ctx, eventUUID, userUUID); err != nil {
		return err
	}

	s.log.Info("User left waiting list",
		zap.String("user_id", userID),
		zap.String("event_id", eventID),
	)

	return nil
}
