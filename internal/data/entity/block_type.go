package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"studio-booking/pkg/utils"
)

var ErrBlockTypeDuration = errors.New("block type must have exactly one of duration_months or duration_weeks")

// BlockType defines a purchasable bundle of class credits for one event
// type: size classes usable within the duration, counted from the block's
// start date.
type BlockType struct {
	Base
	Name           string    `db:"name"`
	Identifier     *string   `db:"identifier"`
	EventTypeID    uuid.UUID `db:"event_type_id"`
	Size           int       `db:"size"`
	Cost           float64   `db:"cost"`
	DurationMonths *int      `db:"duration_months"`
	DurationWeeks  *int      `db:"duration_weeks"`
	Active         bool      `db:"active"`
}

func (bt *BlockType) Validate() error {
	if (bt.DurationMonths == nil) == (bt.DurationWeeks == nil) {
		return ErrBlockTypeDuration
	}
	return nil
}

// ExpiryFromStart computes the block expiry for a block starting at start:
// start plus the duration, snapped to the end of the local calendar day.
// Month durations clamp rather than roll over, so a block started on
// 31 January with one month expires at the end of February.
func (bt *BlockType) ExpiryFromStart(start time.Time) time.Time {
	var end time.Time
	if bt.DurationMonths != nil {
		end = utils.AddCalendarMonths(start, *bt.DurationMonths)
	} else {
		end = start.AddDate(0, 0, *bt.DurationWeeks*7)
	}
	return utils.EndOfDay(end)
}
