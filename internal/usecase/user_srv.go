package usecase

import (
	"context"
	"fmt"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	SetRegularStudent(ctx context.Context, userID string, regular bool) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	user, err := s.userRepo.FindByID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	return response.UserToResponse(user), nil
}

func (s *userService) SetRegularStudent(ctx context.Context, userID string, regular bool) (*response.UserResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	user, err := s.userRepo.FindByID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	if err := s.userRepo.SetRegularStudent(ctx, userUUID, regular); err != nil {
		return nil, err
	}
	user.RegularStudent = regular

	s.log.Info("Regular student flag updated",
		zap.String("user_id", userID),
		zap.Bool("regular", regular))

	return response.UserToResponse(user), nil
}
