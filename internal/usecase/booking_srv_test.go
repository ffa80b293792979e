package usecase

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func openEvent(maxParticipants int) *entity.Event {
	ev := &entity.Event{
		Base:                     entity.Base{ID: uuid.New()},
		Date:                     time.Now().Add(7 * 24 * time.Hour),
		Cost:                     10,
		BookingOpen:              true,
		PaymentOpen:              true,
		CancellationPeriod:       24,
		AllowBookingCancellation: true,
	}
	if maxParticipants > 0 {
		ev.MaxParticipants = intPtr(maxParticipants)
	}
	return ev
}

func TestBookingCreateFillsAndFreesSpaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(2))

	alice := f.addUser("alice@example.com")
	bob := f.addUser("bob@example.com")
	carol := f.addUser("carol@example.com")

	_, err := f.svc.Booking.Create(ctx, alice.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	require.NoError(t, err)
	bobBooking, err := f.svc.Booking.Create(ctx, bob.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	require.NoError(t, err)

	// Third booking hits capacity.
	_, err = f.svc.Booking.Create(ctx, carol.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	assert.ErrorIs(t, err, ErrEventFull)

	// A cancellation frees the space for her.
	_, err = f.svc.Booking.Cancel(ctx, bob.ID.String(), bobBooking.ID, false)
	require.NoError(t, err)

	_, err = f.svc.Booking.Create(ctx, carol.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	assert.NoError(t, err)
}

func TestBookingCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(0))
	alice := f.addUser("alice@example.com")

	_, err := f.svc.Booking.Create(ctx, alice.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	require.NoError(t, err)

	_, err = f.svc.Booking.Create(ctx, alice.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestBookingCreateReusesCancelledRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(0))
	alice := f.addUser("alice@example.com")

	cancelled := f.addBooking(&entity.Booking{
		UserID:        alice.ID,
		EventID:       ev.ID,
		Status:        entity.BookingCancelled,
		AutoCancelled: true,
	})

	resp, err := f.svc.Booking.Create(ctx, alice.ID.String(), &request.CreateBookingRequest{EventID: ev.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, cancelled.ID.String(), resp.ID, "existing row is reopened, not duplicated")

	stored := f.bookings.get(cancelled.ID)
	assert.Equal(t, entity.BookingOpen, stored.Status)
	assert.NotNil(t, stored.DateRebooked)
	assert.False(t, stored.AutoCancelled)
	assert.False(t, stored.Paid, "payment is not restored on reopening")
}

func TestBookingCreateConsumesBlockCredit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")

	eventTypeID := uuid.New()
	ev := f.addEvent(openEvent(0))
	ev.EventTypeID = eventTypeID

	bt := &entity.BlockType{
		Base:           entity.Base{ID: uuid.New()},
		EventTypeID:    eventTypeID,
		Size:           2,
		DurationMonths: intPtr(1),
	}
	f.blockTypes.blockTypes[bt.ID] = bt

	block := &entity.Block{
		Base:        entity.Base{ID: uuid.New()},
		UserID:      alice.ID,
		BlockTypeID: bt.ID,
		Paid:        true,
		StartDate:   time.Now().Add(-24 * time.Hour),
		ExpiryDate:  time.Now().Add(30 * 24 * time.Hour),
	}
	f.blocks.blocks[block.ID] = block

	blockID := block.ID.String()
	resp, err := f.svc.Booking.Create(ctx, alice.ID.String(), &request.CreateBookingRequest{
		EventID: ev.ID.String(),
		BlockID: &blockID,
	})
	require.NoError(t, err)

	stored := f.bookings.get(uuid.MustParse(resp.ID))
	assert.True(t, stored.Paid)
	assert.True(t, stored.PaymentConfirmed)
	assert.NotNil(t, stored.DatePaymentConfirmed,
		"confirming via a block stamps the confirmation date")
	require.NotNil(t, stored.BlockID)
	assert.Equal(t, block.ID, *stored.BlockID)
}

func TestBookingCancelResetsPaymentState(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(0))
	alice := f.addUser("alice@example.com")

	paidAt := time.Now().Add(-time.Hour)
	blockID := uuid.New()
	booking := f.addBooking(&entity.Booking{
		UserID:               alice.ID,
		EventID:              ev.ID,
		Paid:                 true,
		PaymentConfirmed:     true,
		DatePaymentConfirmed: &paidAt,
		BlockID:              &blockID,
		WarningSent:          true,
		ReminderSent:         true,
	})

	_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
	require.NoError(t, err)

	stored := f.bookings.get(booking.ID)
	assert.Equal(t, entity.BookingCancelled, stored.Status)
	assert.False(t, stored.Paid)
	assert.False(t, stored.PaymentConfirmed)
	assert.Nil(t, stored.DatePaymentConfirmed)
	assert.Nil(t, stored.BlockID, "block credit is freed")
	assert.False(t, stored.WarningSent)
	assert.False(t, stored.ReminderSent)
}

func TestBookingCancelChecks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")
	mallory := f.addUser("mallory@example.com")

	t.Run("only the owner can cancel", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID})

		_, err := f.svc.Booking.Cancel(ctx, mallory.ID.String(), booking.ID.String(), false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("inside the cancellation period", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		ev.Date = time.Now().Add(2 * time.Hour)
		booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID})

		_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
		assert.ErrorIs(t, err, ErrNotCancellable)

		// Staff may cancel regardless of the period.
		_, err = f.svc.Booking.Cancel(ctx, mallory.ID.String(), booking.ID.String(), true)
		assert.NoError(t, err)
	})

	t.Run("already cancelled", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{
			UserID:  alice.ID,
			EventID: ev.ID,
			Status:  entity.BookingCancelled,
		})

		_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})
}

func TestBookingCancelNotifiesWaitingListWhenEventWasFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(1))
	alice := f.addUser("alice@example.com")
	waiting := f.addUser("waiting@example.com")

	booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID})
	f.waitingList.entries = append(f.waitingList.entries, &entity.WaitingListUser{
		EventID: ev.ID,
		UserID:  waiting.ID,
	})

	_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
	require.NoError(t, err)

	var notified bool
	for _, msg := range f.sender.messages() {
		for _, bcc := range msg.Bcc {
			if bcc == waiting.Email {
				notified = true
			}
		}
	}
	assert.True(t, notified, "waiting list user should be notified by BCC")
}

func TestBookingReopenChecksCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(1))
	alice := f.addUser("alice@example.com")
	bob := f.addUser("bob@example.com")

	cancelled := f.addBooking(&entity.Booking{
		UserID:  alice.ID,
		EventID: ev.ID,
		Status:  entity.BookingCancelled,
	})
	f.addBooking(&entity.Booking{UserID: bob.ID, EventID: ev.ID})

	_, err := f.svc.Booking.Reopen(ctx, alice.ID.String(), cancelled.ID.String())
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")

	t.Run("stamps confirmation date", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID, Paid: true})

		_, err := f.svc.Booking.ConfirmPayment(ctx, booking.ID.String())
		require.NoError(t, err)

		stored := f.bookings.get(booking.ID)
		assert.True(t, stored.PaymentConfirmed)
		assert.NotNil(t, stored.DatePaymentConfirmed)
	})

	t.Run("rejected for free events", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		ev.Cost = 0
		booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID})

		_, err := f.svc.Booking.ConfirmPayment(ctx, booking.ID.String())
		assert.ErrorIs(t, err, ErrFreeEventPayment)
	})
}

func TestSetFreeClassIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")
	ev := f.addEvent(openEvent(0))
	blockID := uuid.New()
	booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID, BlockID: &blockID})

	_, err := f.svc.Booking.SetFreeClass(ctx, booking.ID.String())
	require.NoError(t, err)
	_, err = f.svc.Booking.SetFreeClass(ctx, booking.ID.String())
	require.NoError(t, err)

	stored := f.bookings.get(booking.ID)
	assert.True(t, stored.FreeClass)
	assert.True(t, stored.Paid)
	assert.NotNil(t, stored.DatePaymentConfirmed,
		"granting a free class stamps the confirmation date")
	assert.Nil(t, stored.BlockID)
}

func TestMarkNoShow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")

	t.Run("keeps payment state", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{
			UserID: alice.ID, EventID: ev.ID, Paid: true, PaymentConfirmed: true,
		})

		_, err := f.svc.Booking.MarkNoShow(ctx, booking.ID.String())
		require.NoError(t, err)

		stored := f.bookings.get(booking.ID)
		assert.Equal(t, entity.BookingNoShow, stored.Status)
		assert.True(t, stored.Paid)
		assert.True(t, stored.PaymentConfirmed)
	})

	t.Run("only reachable from open", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{
			UserID: alice.ID, EventID: ev.ID, Status: entity.BookingCancelled,
		})

		_, err := f.svc.Booking.MarkNoShow(ctx, booking.ID.String())
		assert.ErrorIs(t, err, ErrAttendanceConflict)
	})

	t.Run("conflicts with attendance", func(t *testing.T) {
		ev := f.addEvent(openEvent(0))
		booking := f.addBooking(&entity.Booking{
			UserID: alice.ID, EventID: ev.ID, Attended: true,
		})

		_, err := f.svc.Booking.MarkNoShow(ctx, booking.ID.String())
		assert.ErrorIs(t, err, ErrAttendanceConflict)

		// And the other way round.
		open := f.addBooking(&entity.Booking{
			UserID: alice.ID, EventID: f.addEvent(openEvent(0)).ID, Status: entity.BookingNoShow,
		})
		_, err = f.svc.Booking.MarkAttended(ctx, open.ID.String(), true)
		assert.ErrorIs(t, err, ErrAttendanceConflict)
	})
}
