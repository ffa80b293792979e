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

type BlockService interface {
	CreateBlockType(ctx context.Context, req *request.CreateBlockTypeRequest) (*response.BlockTypeResponse, error)
	GetBlockTypes(ctx context.Context, activeOnly bool) ([]*response.BlockTypeResponse, error)
	Purchase(ctx context.Context, userID string, req *request.PurchaseBlockRequest) (*response.BlockResponse, error)
	GetUserBlocks(ctx context.Context, userID string) ([]*response.BlockResponse, error)

	// Staff operations
	MarkPaid(ctx context.Context, blockID string) (*response.BlockResponse, error)
	Delete(ctx context.Context, blockID string) error
}

type blockService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewBlockService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) BlockService {
	return &blockService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "block")),
	}
}

func (s *blockService) logActivity(ctx context.Context, format string, args ...any) {
	if err := s.repo.ActivityLog.Log(ctx, fmt.Sprintf(format, args...)); err != nil {
		s.log.Error("Failed to write activity log", zap.Error(err))
	}
}

func (s *blockService) CreateBlockType(ctx context.Context, req *request.CreateBlockTypeRequest) (*response.BlockTypeResponse, error) {
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
	bt := &entity.BlockType{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           req.Name,
		Identifier:     req.Identifier,
		EventTypeID:    eventTypeUUID,
		Size:           req.Size,
		Cost:           req.Cost,
		DurationMonths: req.DurationMonths,
		DurationWeeks:  req.DurationWeeks,
		Active:         req.Active,
	}

	if err := bt.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.BlockType.Create(ctx, bt); err != nil {
		return nil, err
	}

	s.log.Info("Block type created",
		zap.String("block_type_id", bt.ID.String()),
		zap.String("name", bt.Name),
	)

	return response.BlockTypeToResponse(bt), nil
}

func (s *blockService) GetBlockTypes(ctx context.Context, activeOnly bool) ([]*response.BlockTypeResponse, error) {
	types, err := s.repo.BlockType.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	res := make([]*response.BlockTypeResponse, 0, len(types))
	for _, bt := range types {
		res = append(res, response.BlockTypeToResponse(bt))
	}
	return res, nil
}

func (s *blockService) Purchase(ctx context.Context, userID string, req *request.PurchaseBlockRequest) (*response.BlockResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	blockTypeUUID, err := uuid.Parse(req.BlockTypeID)
	if err != nil {
		return nil, fmt.Errorf("invalid block type ID format %s: %w", req.BlockTypeID, err)
	}

	blockType, err := s.repo.BlockType.FindByID(ctx, blockTypeUUID)
	if err != nil {
		return nil, err
	}
	if blockType == nil || !blockType.Active {
		return nil, fmt.Errorf("block type %s: %w", req.BlockTypeID, ErrNotFound)
	}

	now := time.Now()
	block := &entity.Block{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userUUID,
		BlockTypeID: blockType.ID,
		StartDate:   now,
		// Zero-cost blocks need no payment step.
		Paid:       blockType.Cost == 0,
		ExpiryDate: blockType.ExpiryFromStart(now),
	}

	if err := s.repo.Block.Create(ctx, block); err != nil {
		return nil, err
	}

	s.logActivity(ctx, "Block %s (%s) purchased by user %s", block.ID, blockType.Name, userID)

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err == nil && user != nil {
		s.notifier.Send(ctx, "block purchase confirmation", []string{user.Email},
			fmt.Sprintf("Block booked: %s", blockType.Name),
			fmt.Sprintf("Your block %s (%d classes) has been set up.\nExpiry: %s\nPaid: %t\n",
				blockType.Name, blockType.Size,
				block.ExpiryDate.In(utils.StudioLocation()).Format("Mon 02 Jan 2006"),
				block.Paid))
	}

	s.log.Info("Block purchased",
		zap.String("block_id", block.ID.String()),
		zap.String("user_id", userID),
	)

	return response.BlockToResponse(block, blockType, 0, block.Paid), nil
}

func (s *blockService) GetUserBlocks(ctx context.Context, userID string) ([]*response.BlockResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	blocks, err := s.repo.Block.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := make([]*response.BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		blockType, err := s.repo.BlockType.FindByID(ctx, block.BlockTypeID)
		if err != nil {
			return nil, err
		}
		used, err := s.repo.Booking.CountOpenByBlockID(ctx, block.ID)
		if err != nil {
			return nil, err
		}
		active := blockType != nil && block.Active(blockType, used, now)
		res = append(res, response.BlockToResponse(block, blockType, used, active))
	}

	return res, nil
}

// MarkPaid confirms payment for a block. The credit window starts at
// payment, so the start date moves to now and the expiry is recomputed.
func (s *blockService) MarkPaid(ctx context.Context, blockID string) (*response.BlockResponse, error) {
	blockUUID, err := uuid.Parse(blockID)
	if err != nil {
		return nil, fmt.Errorf("invalid block ID format %s: %w", blockID, err)
	}

	block, err := s.repo.Block.FindByID(ctx, blockUUID)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, fmt.Errorf("block %s: %w", blockID, ErrNotFound)
	}

	blockType, err := s.repo.BlockType.FindByID(ctx, block.BlockTypeID)
	if err != nil {
		return nil, err
	}
	if blockType == nil {
		return nil, fmt.Errorf("block type for block %s: %w", blockID, ErrNotFound)
	}

	if !block.Paid {
		now := time.Now()
		block.Paid = true
		block.StartDate = now
		block.ExpiryDate = blockType.ExpiryFromStart(now)

		if err := s.repo.Block.Update(ctx, block); err != nil {
			return nil, err
		}

		s.logActivity(ctx, "Block %s (%s) marked as paid for user %s",
			block.ID, blockType.Name, block.UserID)
	}

	used, err := s.repo.Booking.CountOpenByBlockID(ctx, block.ID)
	if err != nil {
		return nil, err
	}

	return response.BlockToResponse(block, blockType, used, block.Active(blockType, used, time.Now())), nil
}

// Delete removes a block and detaches its bookings. Bookings for costed
// events lose their paid state since the credit that paid for them is
// gone; bookings for free events are only disassociated.
func (s *blockService) Delete(ctx context.Context, blockID string) error {
	blockUUID, err := uuid.Parse(blockID)
	if err != nil {
		return fmt.Errorf("invalid block ID format %s: %w", blockID, err)
	}

	block, err := s.repo.Block.FindByID(ctx, blockUUID)
	if err != nil {
		return err
	}
	if block == nil {
		return fmt.Errorf("block %s: %w", blockID, ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindByBlockID(ctx, blockUUID)
	if err != nil {
		return err
	}

	for _, booking := range bookings {
		event, err := s.repo.Event.FindByID(ctx, booking.EventID)
		if err != nil {
			return err
		}

		booking.BlockID = nil
		if event != nil && event.Cost > 0 {
			booking.Paid = false
			booking.PaymentConfirmed = false
			booking.DatePaymentConfirmed = nil
			s.logActivity(ctx, "Booking %s for event %s reset to unpaid after block %s deleted",
				booking.ID, event.Name, blockID)
		} else {
			s.logActivity(ctx, "Booking %s disassociated from deleted block %s",
				booking.ID, blockID)
		}

		if err := s.repo.Booking.Update(ctx, booking); err != nil {
			return err
		}
	}

	if err := s.repo.Block.Delete(ctx, blockUUID); err != nil {
		return err
	}

	s.logActivity(ctx, "Block %s deleted (%d bookings detached)", blockID, len(bookings))

	s.log.Info("Block deleted",
		zap.String("block_id", blockID),
		zap.Int("bookings_detached", len(bookings)),
	)

	return nil
}
