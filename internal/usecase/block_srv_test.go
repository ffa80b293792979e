package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) addBlockType(cost float64, size int) *entity.BlockType {
	bt := &entity.BlockType{
		Base:           entity.Base{ID: uuid.New()},
		Name:           "Pole level 1 - 6 classes",
		EventTypeID:    uuid.New(),
		Size:           size,
		Cost:           cost,
		DurationMonths: intPtr(2),
		Active:         true,
	}
	f.blockTypes.blockTypes[bt.ID] = bt
	return bt
}

func (f *fixture) addBlock(userID uuid.UUID, bt *entity.BlockType, paid bool) *entity.Block {
	start := time.Now().Add(-72 * time.Hour)
	block := &entity.Block{
		Base:        entity.Base{ID: uuid.New()},
		UserID:      userID,
		BlockTypeID: bt.ID,
		StartDate:   start,
		Paid:        paid,
		ExpiryDate:  bt.ExpiryFromStart(start),
	}
	f.blocks.blocks[block.ID] = block
	return block
}

func TestBlockPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("costed block starts unpaid", func(t *testing.T) {
		f := newFixture()
		alice := f.addUser("alice@example.com")
		bt := f.addBlockType(40, 6)

		res, err := f.svc.Block.Purchase(ctx, alice.ID.String(), &request.PurchaseBlockRequest{BlockTypeID: bt.ID.String()})
		require.NoError(t, err)
		assert.False(t, res.Paid)
	})

	t.Run("free block is paid immediately", func(t *testing.T) {
		f := newFixture()
		alice := f.addUser("alice@example.com")
		bt := f.addBlockType(0, 6)

		res, err := f.svc.Block.Purchase(ctx, alice.ID.String(), &request.PurchaseBlockRequest{BlockTypeID: bt.ID.String()})
		require.NoError(t, err)
		assert.True(t, res.Paid)
	})

	t.Run("inactive block type", func(t *testing.T) {
		f := newFixture()
		alice := f.addUser("alice@example.com")
		bt := f.addBlockType(40, 6)
		bt.Active = false

		_, err := f.svc.Block.Purchase(ctx, alice.ID.String(), &request.PurchaseBlockRequest{BlockTypeID: bt.ID.String()})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBlockMarkPaidRestartsExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")
	bt := f.addBlockType(40, 6)
	block := f.addBlock(alice.ID, bt, false)
	oldExpiry := block.ExpiryDate

	res, err := f.svc.Block.MarkPaid(ctx, block.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Paid)

	stored := f.blocks.blocks[block.ID]
	require.True(t, stored.Paid)
	assert.WithinDuration(t, time.Now(), stored.StartDate, time.Minute,
		"credit window restarts at payment")
	assert.True(t, stored.ExpiryDate.After(oldExpiry))

	// Marking a paid block again must not move the dates.
	firstStart := stored.StartDate
	_, err = f.svc.Block.MarkPaid(ctx, block.ID.String())
	require.NoError(t, err)
	assert.Equal(t, firstStart, f.blocks.blocks[block.ID].StartDate)
}

func TestBlockDeleteDetachesBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")
	bt := f.addBlockType(40, 6)
	block := f.addBlock(alice.ID, bt, true)

	costedEvent := f.addEvent(openEvent(0))
	freeEvent := f.addEvent(&entity.Event{
		Base:        entity.Base{ID: uuid.New()},
		Name:        "Community taster",
		Date:        time.Now().Add(7 * 24 * time.Hour),
		Cost:        0,
		BookingOpen: true,
	})

	confirmed := time.Now().Add(-time.Hour)
	costedBooking := f.addBooking(&entity.Booking{
		UserID:               alice.ID,
		EventID:              costedEvent.ID,
		BlockID:              &block.ID,
		Paid:                 true,
		PaymentConfirmed:     true,
		DatePaymentConfirmed: &confirmed,
	})
	freeBooking := f.addBooking(&entity.Booking{
		UserID:  alice.ID,
		EventID: freeEvent.ID,
		BlockID: &block.ID,
		Paid:    true,
	})

	require.NoError(t, f.svc.Block.Delete(ctx, block.ID.String()))

	assert.Nil(t, f.blocks.blocks[block.ID], "block row is gone")

	costed := f.bookings.get(costedBooking.ID)
	assert.Nil(t, costed.BlockID)
	assert.False(t, costed.Paid, "credit that paid for the class is gone")
	assert.False(t, costed.PaymentConfirmed)
	assert.Nil(t, costed.DatePaymentConfirmed)

	free := f.bookings.get(freeBooking.ID)
	assert.Nil(t, free.BlockID)
	assert.True(t, free.Paid, "free event bookings keep their state")

	var resetLogged, detachLogged bool
	for _, line := range f.activity.all() {
		if strings.Contains(line, "reset to unpaid") {
			resetLogged = true
		}
		if strings.Contains(line, "disassociated") {
			detachLogged = true
		}
	}
	assert.True(t, resetLogged)
	assert.True(t, detachLogged)
}
