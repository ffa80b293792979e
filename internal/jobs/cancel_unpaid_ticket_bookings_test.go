package jobs

import (
	"testing"
	"time"

	"studio-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestTicketPaymentOverdue(t *testing.T) {
	now := time.Now()

	t.Run("due date passed, warned", func(t *testing.T) {
		due := now.Add(-time.Hour)
		ev := &entity.TicketedEvent{PaymentDueDate: &due}
		warnedAt := now.Add(-3 * time.Hour)
		p := &entity.TicketBooking{WarningSent: true, DateWarningSent: &warnedAt, DateBooked: now.Add(-48 * time.Hour)}
		assert.True(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("due date passed, never warned", func(t *testing.T) {
		due := now.Add(-time.Hour)
		ev := &entity.TicketedEvent{PaymentDueDate: &due}
		p := &entity.TicketBooking{DateBooked: now.Add(-48 * time.Hour)}
		assert.False(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("warned moments ago is safe", func(t *testing.T) {
		due := now.Add(-time.Hour)
		ev := &entity.TicketedEvent{PaymentDueDate: &due}
		warnedAt := now.Add(-time.Hour)
		p := &entity.TicketBooking{WarningSent: true, DateWarningSent: &warnedAt, DateBooked: now.Add(-48 * time.Hour)}
		assert.False(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("due date wins over the relative window", func(t *testing.T) {
		due := now.Add(48 * time.Hour)
		ev := &entity.TicketedEvent{PaymentDueDate: &due, PaymentTimeAllowed: intPtr(6)}
		p := &entity.TicketBooking{DateBooked: now.Add(-48 * time.Hour)}
		assert.False(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("relative window needs no warning", func(t *testing.T) {
		ev := &entity.TicketedEvent{PaymentTimeAllowed: intPtr(8)}
		p := &entity.TicketBooking{DateBooked: now.Add(-9 * time.Hour)}
		assert.True(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("relative window has a six hour floor", func(t *testing.T) {
		ev := &entity.TicketedEvent{PaymentTimeAllowed: intPtr(2)}
		p := &entity.TicketBooking{DateBooked: now.Add(-5 * time.Hour)}
		assert.False(t, ticketPaymentOverdue(p, ev, now))

		p.DateBooked = now.Add(-7 * time.Hour)
		assert.True(t, ticketPaymentOverdue(p, ev, now))
	})

	t.Run("no deadline configured", func(t *testing.T) {
		ev := &entity.TicketedEvent{}
		p := &entity.TicketBooking{DateBooked: now.Add(-30 * 24 * time.Hour)}
		assert.False(t, ticketPaymentOverdue(p, ev, now))
	})
}
