package jobs

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningDue(t *testing.T) {
	now := time.Now()

	t.Run("relative payment window is always due", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(30 * 24 * time.Hour), PaymentTimeAllowed: intPtr(8)}
		assert.True(t, warningDue(&entity.Booking{}, ev, now))
	})

	t.Run("free class request is always due", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(30 * 24 * time.Hour)}
		assert.True(t, warningDue(&entity.Booking{FreeClassRequested: true}, ev, now))
	})

	t.Run("within lead time of cancellation deadline", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(60 * time.Hour), CancellationPeriod: 24}
		assert.True(t, warningDue(&entity.Booking{}, ev, now))
	})

	t.Run("too far from any deadline", func(t *testing.T) {
		ev := &entity.Event{Date: now.Add(30 * 24 * time.Hour), CancellationPeriod: 24}
		assert.False(t, warningDue(&entity.Booking{}, ev, now))
	})

	t.Run("within lead time of explicit due date", func(t *testing.T) {
		due := now.Add(24 * time.Hour)
		ev := &entity.Event{Date: now.Add(30 * 24 * time.Hour), PaymentDueDate: &due}
		assert.True(t, warningDue(&entity.Booking{}, ev, now))
	})
}

func TestPaymentDeadline(t *testing.T) {
	now := time.Now()
	eventDate := now.Add(7 * 24 * time.Hour)

	t.Run("defaults to cancellation deadline", func(t *testing.T) {
		ev := &entity.Event{Date: eventDate, CancellationPeriod: 24}
		got := paymentDeadline(&entity.Booking{DateBooked: now}, ev)
		assert.Equal(t, eventDate.Add(-24*time.Hour), got)
	})

	t.Run("relative window overrides", func(t *testing.T) {
		ev := &entity.Event{Date: eventDate, CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8)}
		b := &entity.Booking{DateBooked: now}
		assert.Equal(t, now.Add(8*time.Hour), paymentDeadline(b, ev))
	})

	t.Run("free class request overrides the relative window", func(t *testing.T) {
		ev := &entity.Event{Date: eventDate, CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8)}
		b := &entity.Booking{FreeClassRequested: true, DateBooked: now}
		assert.Equal(t, now.Add(24*time.Hour), paymentDeadline(b, ev))
	})

	t.Run("earlier explicit due date wins", func(t *testing.T) {
		due := now.Add(2 * time.Hour)
		ev := &entity.Event{Date: eventDate, CancellationPeriod: 24, PaymentTimeAllowed: intPtr(8), PaymentDueDate: &due}
		b := &entity.Booking{DateBooked: now}
		assert.Equal(t, due, paymentDeadline(b, ev))
	})
}

func TestTicketWarningsRespectSendingHours(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture()
	alice := f.addUser("alice@example.com")

	event := entity.TicketedEvent{
		Base: entity.Base{ID: uuid.New()},
		Name: "Christmas showcase",
		Date: time.Now().Add(7 * 24 * time.Hour),
	}
	night := time.Date(2025, 1, 15, 3, 0, 0, 0, utils.StudioLocation())
	purchase := entity.TicketBooking{
		Base:             entity.Base{ID: uuid.New()},
		UserID:           alice.ID,
		BookingReference: "REF4XKQ",
		DateBooked:       night.Add(-3 * time.Hour),
	}
	f.tickets.rows = []*repository.TicketBookingWithEvent{{TicketBooking: purchase, Event: event}}

	job := &emailWarnings{f.deps}

	warned, err := job.warnTicketPurchases(ctx, night)
	require.NoError(t, err)
	assert.Zero(t, warned, "nothing goes out in the middle of the night")
	assert.Empty(t, f.sender.messages())
	assert.False(t, f.tickets.rows[0].TicketBooking.WarningSent)

	morning := time.Date(2025, 1, 15, 10, 0, 0, 0, utils.StudioLocation())
	warned, err = job.warnTicketPurchases(ctx, morning)
	require.NoError(t, err)
	assert.Equal(t, 1, warned)
	assert.True(t, f.tickets.rows[0].TicketBooking.WarningSent)
	require.Len(t, f.sender.messages(), 1)
	assert.Contains(t, f.sender.messages()[0].To, alice.Email)
}
