package repository

import (
	"studio-booking/pkg/database"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// psql builds the dynamic queries; everything simple stays raw SQL.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	EventType     EventTypeRepository
	Event         EventRepository
	BlockType     BlockTypeRepository
	Block         BlockRepository
	Booking       BookingRepository
	WaitingList   WaitingListRepository
	TicketedEvent TicketedEventRepository
	TicketBooking TicketBookingRepository
	Ticket        TicketRepository
	ActivityLog   ActivityLogRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		EventType:     NewEventTypeRepository(db, log),
		Event:         NewEventRepository(db, log),
		BlockType:     NewBlockTypeRepository(db, log),
		Block:         NewBlockRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		WaitingList:   NewWaitingListRepository(db, log),
		TicketedEvent: NewTicketedEventRepository(db, log),
		TicketBooking: NewTicketBookingRepository(db, log),
		Ticket:        NewTicketRepository(db, log),
		ActivityLog:   NewActivityLogRepository(db, log),
	}
}
