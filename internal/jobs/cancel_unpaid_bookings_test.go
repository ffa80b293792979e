package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestPaymentOverdue(t *testing.T) {
	now := time.Now()

	t.Run("cancellation deadline passed, warned", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(12 * time.Hour), CancellationPeriod: 24}
		b := &entity.Booking{WarningSent: true, DateBooked: now.Add(-72 * time.Hour)}
		assert.True(t, paymentOverdue(b, ev, now))
	})

	t.Run("cancellation deadline passed, never warned", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(12 * time.Hour), CancellationPeriod: 24}
		b := &entity.Booking{DateBooked: now.Add(-72 * time.Hour)}
		assert.False(t, paymentOverdue(b, ev, now))
	})

	t.Run("explicit due date passed, warned", func(t *testing.T) {
		due := now.Add(-time.Hour)
		ev := &entity.Event{Date: now.Add(7 * 24 * time.Hour), CancellationPeriod: 24, PaymentDueDate: &due}
		b := &entity.Booking{WarningSent: true, DateBooked: now.Add(-72 * time.Hour)}
		assert.True(t, paymentOverdue(b, ev, now))
	})

	t.Run("relative window fires without a warning", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(7 * 24 * time.Hour), CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8)}
		b := &entity.Booking{DateBooked: now.Add(-9 * time.Hour)}
		assert.True(t, paymentOverdue(b, ev, now))
	})

	t.Run("relative window counts from rebooking", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(7 * 24 * time.Hour), CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8)}
		rebooked := now.Add(-time.Hour)
		b := &entity.Booking{DateBooked: now.Add(-9 * time.Hour), DateRebooked: &rebooked}
		assert.False(t, paymentOverdue(b, ev, now))
	})

	t.Run("free class request always gets 24 hours", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(7 * 24 * time.Hour), CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8)}
		b := &entity.Booking{FreeClassRequested: true, DateBooked: now.Add(-9 * time.Hour)}
		assert.False(t, paymentOverdue(b, ev, now))

		b.DateBooked = now.Add(-25 * time.Hour)
		assert.True(t, paymentOverdue(b, ev, now))
	})

	t.Run("no deadline applies", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(7 * 24 * time.Hour), CancellationPeriod: 24}
		b := &entity.Booking{DateBooked: now.Add(-30 * 24 * time.Hour)}
		assert.False(t, paymentOverdue(b, ev, now))
	})
}

func TestCancelUnpaidBookingsRun(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture()

	alice := f.addUser("alice@example.com")
	bob := f.addUser("bob@example.com")

	// One space, taken by Alice's unpaid booking, with Bob waiting. The
	// relative payment window expired hours ago.
	event := entity.Event{
		Base:               entity.Base{ID: uuid.New()},
		Name:               "Pole level 1",
		Date:               time.Now().Add(48 * time.Hour),
		Cost:               10,
		MaxParticipants:    intPtr(1),
		PaymentTimeAllowed: intPtr(8),
	}
	booking := entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		UserID:     alice.ID,
		EventID:    event.ID,
		Status:     entity.BookingOpen,
		DateBooked: time.Now().Add(-10 * time.Hour),
	}
	f.bookings.rows = []*repository.BookingWithEvent{{Booking: booking, Event: event}}
	f.waiting.entries = []*entity.WaitingListUser{{EventID: event.ID, UserID: bob.ID}}

	job := &cancelUnpaidBookings{f.deps}
	require.NoError(t, job.Run(ctx))

	stored := f.bookings.get(booking.ID)
	assert.Equal(t, entity.BookingCancelled, stored.Status)
	assert.True(t, stored.AutoCancelled)
	assert.False(t, stored.Paid)
	assert.Nil(t, stored.BlockID)

	var cancelLogged, summaryLogged bool
	for _, line := range f.activity.all() {
		if strings.Contains(line, "automatically cancelled") {
			cancelLogged = true
		}
		if strings.Contains(line, "sweep cancelled 1 booking") {
			summaryLogged = true
		}
	}
	assert.True(t, cancelLogged)
	assert.True(t, summaryLogged)

	var userMail, waitingMail, studioMail bool
	for _, msg := range f.sender.messages() {
		for _, to := range msg.To {
			if to == alice.Email {
				userMail = true
			}
			if to == "studio@example.com" && strings.Contains(msg.Subject, "automatically cancelled") {
				studioMail = true
			}
		}
		for _, bcc := range msg.Bcc {
			if bcc == bob.Email {
				waitingMail = true
			}
		}
	}
	assert.True(t, userMail, "the cancelled user is emailed")
	assert.True(t, waitingMail, "the waiting list hears about the freed space")
	assert.True(t, studioMail, "the studio gets the sweep summary")
}

func TestCancelUnpaidBookingsRunNothingToDo(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture()

	job := &cancelUnpaidBookings{f.deps}
	require.NoError(t, job.Run(ctx))

	assert.Empty(t, f.sender.messages())

	var noopLogged bool
	for _, line := range f.activity.all() {
		if strings.Contains(line, "found nothing to cancel") {
			noopLogged = true
		}
	}
	assert.True(t, noopLogged, "the no-op sweep still leaves an audit line")
}
