package entity

import (
	"time"

	"github.com/google/uuid"
)

// Block is one purchased credit bundle. Bookings consume credits by
// pointing their block_id at it.
type Block struct {
	Base
	UserID      uuid.UUID `db:"user_id"`
	BlockTypeID uuid.UUID `db:"block_type_id"`
	StartDate   time.Time `db:"start_date"`
	Paid        bool      `db:"paid"`
	ExpiryDate  time.Time `db:"expiry_date"`
}

func (b *Block) Expired(now time.Time) bool {
	return !b.ExpiryDate.After(now)
}

// Full reports whether every credit is used, given the count of open
// bookings attached to this block.
func (b *Block) Full(blockType *BlockType, bookingsMade int) bool {
	return bookingsMade >= blockType.Size
}

// Active reports whether the block can still pay for a booking: paid,
// not expired and not full.
func (b *Block) Active(blockType *BlockType, bookingsMade int, now time.Time) bool {
	return b.Paid && !b.Expired(now) && !b.Full(blockType, bookingsMade)
}
