package usecase

import (
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Event       EventService
	Booking     BookingService
	Block       BlockService
	WaitingList WaitingListService
	Ticket      TicketService
}

func NewService(repo *repository.Repository, config *utils.Config, sender mailer.Sender, log *zap.Logger) *Service {
	notifier := NewNotifier(sender, config.Studio, repo.ActivityLog, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Event:       NewEventService(repo, notifier, log),
		Booking:     NewBookingService(repo, notifier, log),
		Block:       NewBlockService(repo, notifier, log),
		WaitingList: NewWaitingListService(repo, log),
		Ticket:      NewTicketService(repo, notifier, log),
	}
}
