package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/metrics"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
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

type fakeBookingRepo struct {
	repository.BookingRepository
	mu   sync.Mutex
	rows []*repository.BookingWithEvent
}

func (f *fakeBookingRepo) FindUnpaidOpenForUpcoming(_ context.Context, _ time.Time) ([]*repository.BookingWithEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, nil
}

func (f *fakeBookingRepo) CountOpenByEventID(_ context.Context, eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, row := range f.rows {
		if row.Event.ID == eventID && row.Booking.Status == entity.BookingOpen {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Booking.ID == b.ID {
			row.Booking = *b
			return nil
		}
	}
	return errors.New("booking not found")
}

func (f *fakeBookingRepo) get(id uuid.UUID) *entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Booking.ID == id {
			clone := row.Booking
			return &clone
		}
	}
	return nil
}

type fakeTicketBookingRepo struct {
	repository.TicketBookingRepository
	mu   sync.Mutex
	rows []*repository.TicketBookingWithEvent
}

func (f *fakeTicketBookingRepo) FindUnpaidConfirmed(_ context.Context, _ time.Time) ([]*repository.TicketBookingWithEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, nil
}

func (f *fakeTicketBookingRepo) Update(_ context.Context, tb *entity.TicketBooking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.TicketBooking.ID == tb.ID {
			row.TicketBooking = *tb
			return nil
		}
	}
	return errors.New("ticket booking not found")
}

type fakeWaitingListRepo struct {
	repository.WaitingListRepository
	entries []*entity.WaitingListUser
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

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

// jobFixture wires Deps onto in-memory fakes with an isolated metrics
// registry per test.
type jobFixture struct {
	users    *fakeUserRepo
	bookings *fakeBookingRepo
	tickets  *fakeTicketBookingRepo
	waiting  *fakeWaitingListRepo
	activity *fakeActivityLog
	sender   *fakeSender
	deps     *Deps
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		bookings: &fakeBookingRepo{},
		tickets:  &fakeTicketBookingRepo{},
		waiting:  &fakeWaitingListRepo{},
		activity: &fakeActivityLog{},
		sender:   &fakeSender{},
	}

	repo := &repository.Repository{
		User:          f.users,
		Booking:       f.bookings,
		TicketBooking: f.tickets,
		WaitingList:   f.waiting,
		ActivityLog:   f.activity,
	}

	studio := utils.StudioConfig{
		Email:               "studio@example.com",
		SupportEmail:        "support@example.com",
		SubjectPrefix:       "[Test]",
		SendAllStudioEmails: true,
	}

	f.deps = &Deps{
		Repo:     repo,
		Notifier: usecase.NewNotifier(f.sender, studio, f.activity, zap.NewNop()),
		Metrics:  metrics.NewWith(prometheus.NewRegistry(), "test"),
		Log:      zap.NewNop(),
	}
	return f
}

func (f *jobFixture) addUser(email string) *entity.User {
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: email,
		Email:    email,
		Role:     entity.RoleStudent,
		IsActive: true,
	}
	f.users.users[user.ID] = user
	return user
}
