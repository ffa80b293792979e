package entity

import (
	"testing"
	"time"

	"studio-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestEventNormalize(t *testing.T) {
	t.Run("free event clears payment fields", func(t *testing.T) {
		due := time.Now().Add(48 * time.Hour)
		ev := &Event{
			Cost:                   0,
			AdvancePaymentRequired: true,
			PaymentOpen:            true,
			PaymentDueDate:         &due,
			PaymentTimeAllowed:     intPtr(8),
		}
		ev.Normalize()

		assert.False(t, ev.AdvancePaymentRequired)
		assert.False(t, ev.PaymentOpen)
		assert.Nil(t, ev.PaymentDueDate)
		assert.Nil(t, ev.PaymentTimeAllowed)
	})

	t.Run("payment due date implies advance payment and snaps to end of day", func(t *testing.T) {
		due := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
		ev := &Event{Cost: 10, PaymentDueDate: &due}
		ev.Normalize()

		assert.True(t, ev.AdvancePaymentRequired)
		local := ev.PaymentDueDate.In(utils.StudioLocation())
		assert.Equal(t, 10, local.Day())
		assert.Equal(t, 23, local.Hour())
		assert.Equal(t, 59, local.Minute())
	})

	t.Run("payment time allowed implies advance payment", func(t *testing.T) {
		ev := &Event{Cost: 10, PaymentTimeAllowed: intPtr(6)}
		ev.Normalize()

		assert.True(t, ev.AdvancePaymentRequired)
	})

	t.Run("external instructor closes booking and payment", func(t *testing.T) {
		ev := &Event{Cost: 10, BookingOpen: true, PaymentOpen: true, ExternalInstructor: true}
		ev.Normalize()

		assert.False(t, ev.BookingOpen)
		assert.False(t, ev.PaymentOpen)
		assert.True(t, ev.EmailStudioWhenBooked)
	})
}

func TestEventSpacesLeft(t *testing.T) {
	ev := &Event{MaxParticipants: intPtr(3)}

	assert.Equal(t, 3, ev.SpacesLeft(0))
	assert.Equal(t, 1, ev.SpacesLeft(2))
	assert.Equal(t, 0, ev.SpacesLeft(3))
	assert.Equal(t, 0, ev.SpacesLeft(5))

	unlimited := &Event{}
	assert.Equal(t, UnlimitedSpaces, unlimited.SpacesLeft(250))
}

func TestEventBookable(t *testing.T) {
	now := time.Now()

	t.Run("open with space", func(t *testing.T) {
		ev := &Event{BookingOpen: true, MaxParticipants: intPtr(2), Date: now.Add(72 * time.Hour)}
		assert.True(t, ev.Bookable(1, now))
	})

	t.Run("full", func(t *testing.T) {
		ev := &Event{BookingOpen: true, MaxParticipants: intPtr(2)}
		assert.False(t, ev.Bookable(2, now))
	})

	t.Run("booking closed", func(t *testing.T) {
		ev := &Event{BookingOpen: false}
		assert.False(t, ev.Bookable(0, now))
	})

	t.Run("past payment due date", func(t *testing.T) {
		due := now.Add(-time.Hour)
		ev := &Event{BookingOpen: true, PaymentDueDate: &due}
		assert.False(t, ev.Bookable(0, now))
	})
}

func TestEventCanCancel(t *testing.T) {
	london := utils.StudioLocation()

	t.Run("outside period", func(t *testing.T) {
		now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
		ev := &Event{
			Date:                     now.Add(48 * time.Hour),
			CancellationPeriod:       24,
			AllowBookingCancellation: true,
		}
		assert.True(t, ev.CanCancel(now))
	})

	t.Run("inside period", func(t *testing.T) {
		now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
		ev := &Event{
			Date:                     now.Add(12 * time.Hour),
			CancellationPeriod:       24,
			AllowBookingCancellation: true,
		}
		assert.False(t, ev.CanCancel(now))
	})

	t.Run("cancellation disallowed", func(t *testing.T) {
		now := time.Now()
		ev := &Event{Date: now.Add(100 * time.Hour), CancellationPeriod: 1}
		assert.False(t, ev.CanCancel(now))
	})

	t.Run("spring forward shortens the real window", func(t *testing.T) {
		// Clocks go forward 30 Mar 2025 at 01:00 GMT. A class at 09:30 BST
		// on the 30th with a 24h period: booking at 09:31 GMT on the 29th
		// is 23 real hours and 59 minutes ahead, but only 24h59m on the
		// wall clock, so cancellation is still allowed.
		eventDate := time.Date(2025, 3, 30, 9, 30, 0, 0, london)
		now := time.Date(2025, 3, 29, 8, 31, 0, 0, time.UTC)
		ev := &Event{
			Date:                     eventDate,
			CancellationPeriod:       24,
			AllowBookingCancellation: true,
		}
		assert.True(t, ev.CanCancel(now))
	})

	t.Run("autumn fall back lengthens the real window", func(t *testing.T) {
		// Clocks go back 26 Oct 2025 at 02:00 BST. A class at 09:30 GMT on
		// the 26th with a 24h period: 24h30m real hours before is 09:30
		// wall-clock time minus 23h30m, inside the period.
		eventDate := time.Date(2025, 10, 26, 9, 30, 0, 0, london)
		now := eventDate.Add(-24*time.Hour - 30*time.Minute)
		ev := &Event{
			Date:                     eventDate,
			CancellationPeriod:       24,
			AllowBookingCancellation: true,
		}
		assert.False(t, ev.CanCancel(now))
	})
}
