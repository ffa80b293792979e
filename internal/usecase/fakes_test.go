package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The fakes embed their repository interface so only the methods a test
// exercises need an implementation; calling anything else panics.

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

type fakeEventRepo struct {
	repository.EventRepository
	events map[uuid.UUID]*entity.Event
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.events[id], nil
}

type fakeBookingRepo struct {
	repository.BookingRepository
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.EventID == eventID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) CountOpenByEventID(_ context.Context, eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, b := range f.bookings {
		if b.EventID == eventID && b.Status == entity.BookingOpen {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) CountOpenByBlockID(_ context.Context, blockID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, b := range f.bookings {
		if b.BlockID != nil && *b.BlockID == blockID && b.Status == entity.BookingOpen {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindByBlockID(_ context.Context, blockID uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, b := range f.bookings {
		if b.BlockID != nil && *b.BlockID == blockID {
			clone := *b
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) FindOpenByEventID(_ context.Context, eventID uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, b := range f.bookings {
		if b.EventID == eventID && b.Status == entity.BookingOpen {
			clone := *b
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return errors.New("booking not found")
	}
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) get(id uuid.UUID) *entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id]
}

type fakeBlockRepo struct {
	repository.BlockRepository
	blocks map[uuid.UUID]*entity.Block
}

func (f *fakeBlockRepo) Create(_ context.Context, b *entity.Block) error {
	clone := *b
	f.blocks[b.ID] = &clone
	return nil
}

func (f *fakeBlockRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Block, error) {
	if b, ok := f.blocks[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeBlockRepo) Update(_ context.Context, b *entity.Block) error {
	if _, ok := f.blocks[b.ID]; !ok {
		return errors.New("block not found")
	}
	clone := *b
	f.blocks[b.ID] = &clone
	return nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.blocks, id)
	return nil
}

type fakeBlockTypeRepo struct {
	repository.BlockTypeRepository
	blockTypes map[uuid.UUID]*entity.BlockType
}

func (f *fakeBlockTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BlockType, error) {
	return f.blockTypes[id], nil
}

type fakeWaitingListRepo struct {
	repository.WaitingListRepository
	entries []*entity.WaitingListUser
}

func (f *fakeWaitingListRepo) Add(_ context.Context, entry *entity.WaitingListUser) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWaitingListRepo) Remove(_ context.Context, eventID, userID uuid.UUID) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.EventID != eventID || e.UserID != userID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeWaitingListRepo) FindByEventID(_ context.Context, eventID uuid.UUID) ([]*entity.WaitingListUser, error) {
	var result []*entity.WaitingListUser
	for _, e := range f.entries {
		if e.EventID == eventID {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeActivityLog struct {
	repository.ActivityLogRepository
	mu      sync.Mutex
	entries []string
}

func (f *fakeActivityLog) Log(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, message)
	return nil
}

func (f *fakeActivityLog) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.entries...)
}

// fakeSender records sent messages. Recipients in failTo make the send
// fail, so notifier fallback paths can be driven per recipient.
type fakeSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, to := range msg.To {
		if f.failTo[to] {
			return errors.New("smtp unavailable")
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

// fixture wires a Service onto in-memory fakes.
type fixture struct {
	users       *fakeUserRepo
	events      *fakeEventRepo
	bookings    *fakeBookingRepo
	blocks      *fakeBlockRepo
	blockTypes  *fakeBlockTypeRepo
	waitingList *fakeWaitingListRepo
	activity    *fakeActivityLog
	sender      *fakeSender
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:       &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		events:      &fakeEventRepo{events: map[uuid.UUID]*entity.Event{}},
		bookings:    &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}},
		blocks:      &fakeBlockRepo{blocks: map[uuid.UUID]*entity.Block{}},
		blockTypes:  &fakeBlockTypeRepo{blockTypes: map[uuid.UUID]*entity.BlockType{}},
		waitingList: &fakeWaitingListRepo{},
		activity:    &fakeActivityLog{},
		sender:      &fakeSender{failTo: map[string]bool{}},
	}

	repo := &repository.Repository{
		User:        f.users,
		Event:       f.events,
		Booking:     f.bookings,
		Block:       f.blocks,
		BlockType:   f.blockTypes,
		WaitingList: f.waitingList,
		ActivityLog: f.activity,
	}

	config := &utils.Config{
		Studio: utils.StudioConfig{
			Email:               "studio@example.com",
			SupportEmail:        "support@example.com",
			SubjectPrefix:       "[Test]",
			SendAllStudioEmails: true,
		},
	}

	f.svc = NewService(repo, config, f.sender, zap.NewNop())
	return f
}

func (f *fixture) addUser(email string) *entity.User {
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username: email,
		Email:    email,
		Role:     entity.RoleStudent,
		IsActive: true,
	}
	f.users.users[user.ID] = user
	return user
}

func (f *fixture) addEvent(ev *entity.Event) *entity.Event {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Name == "" {
		ev.Name = "Pole level 1"
	}
	f.events.events[ev.ID] = ev
	return ev
}

func (f *fixture) addBooking(b *entity.Booking) *entity.Booking {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = entity.BookingOpen
	}
	if b.DateBooked.IsZero() {
		b.DateBooked = time.Now().Add(-24 * time.Hour)
	}
	f.bookings.bookings[b.ID] = b
	return b
}
