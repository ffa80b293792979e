package entity

import (
	"testing"
	"time"

	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTypeValidate(t *testing.T) {
	assert.NoError(t, (&BlockType{DurationMonths: intPtr(1)}).Validate())
	assert.NoError(t, (&BlockType{DurationWeeks: intPtr(6)}).Validate())
	assert.ErrorIs(t, (&BlockType{}).Validate(), ErrBlockTypeDuration)
	assert.ErrorIs(t,
		(&BlockType{DurationMonths: intPtr(1), DurationWeeks: intPtr(6)}).Validate(),
		ErrBlockTypeDuration)
}

func TestBlockTypeExpiryFromStart(t *testing.T) {
	london := utils.StudioLocation()

	t.Run("months clamp the day", func(t *testing.T) {
		bt := &BlockType{DurationMonths: intPtr(1)}
		start := time.Date(2025, 1, 31, 10, 0, 0, 0, london)

		got := bt.ExpiryFromStart(start).In(london)
		assert.Equal(t, time.February, got.Month())
		assert.Equal(t, 28, got.Day())
		assert.Equal(t, 23, got.Hour())
		assert.Equal(t, 59, got.Minute())
	})

	t.Run("weeks", func(t *testing.T) {
		bt := &BlockType{DurationWeeks: intPtr(2)}
		start := time.Date(2025, 5, 1, 10, 0, 0, 0, london)

		got := bt.ExpiryFromStart(start).In(london)
		assert.Equal(t, 15, got.Day())
		assert.Equal(t, 23, got.Hour())
	})
}

func TestBlockActive(t *testing.T) {
	bt := &BlockType{Size: 5, DurationMonths: intPtr(1)}
	now := time.Now()

	block := &Block{
		Paid:       true,
		ExpiryDate: now.Add(24 * time.Hour),
	}

	assert.True(t, block.Active(bt, 0, now))
	assert.True(t, block.Active(bt, 4, now))
	assert.False(t, block.Active(bt, 5, now), "full block")

	block.Paid = false
	assert.False(t, block.Active(bt, 0, now), "unpaid block")

	block.Paid = true
	block.ExpiryDate = now.Add(-time.Minute)
	assert.False(t, block.Active(bt, 0, now), "expired block")
}

func TestBookingLastBooked(t *testing.T) {
	booked := time.Now().Add(-48 * time.Hour)
	b := &Booking{DateBooked: booked}
	assert.Equal(t, booked, b.LastBooked())

	rebooked := time.Now().Add(-time.Hour)
	b.DateRebooked = &rebooked
	assert.Equal(t, rebooked, b.LastBooked())
}

func TestBookingOccupying(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingOpen}).Occupying())
	assert.False(t, (&Booking{Status: BookingCancelled}).Occupying())
	assert.False(t, (&Booking{Status: BookingNoShow}).Occupying())
}

func TestBookingNormalize(t *testing.T) {
	now := time.Now()

	b := &Booking{PaymentConfirmed: true}
	b.Normalize(now)
	require.NotNil(t, b.DatePaymentConfirmed)
	assert.Equal(t, now, *b.DatePaymentConfirmed)

	// An existing stamp is kept.
	b.Normalize(now.Add(time.Hour))
	assert.Equal(t, now, *b.DatePaymentConfirmed)

	unconfirmed := &Booking{}
	unconfirmed.Normalize(now)
	assert.Nil(t, unconfirmed.DatePaymentConfirmed)
}

func TestBookingSetFreeClass(t *testing.T) {
	blockID := uuid.New()
	b := &Booking{BlockID: &blockID}

	b.SetFreeClass()
	require.True(t, b.FreeClass)
	assert.True(t, b.Paid)
	assert.True(t, b.PaymentConfirmed)
	assert.Nil(t, b.BlockID)

	// Idempotent
	b.SetFreeClass()
	assert.True(t, b.FreeClass)
	assert.True(t, b.Paid)
}
