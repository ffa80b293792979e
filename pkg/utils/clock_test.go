package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndOfDay(t *testing.T) {
	london := StudioLocation()

	t.Run("winter day", func(t *testing.T) {
		in := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
		got := EndOfDay(in).In(london)

		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 15, got.Day())
		assert.Equal(t, 23, got.Hour())
		assert.Equal(t, 59, got.Minute())
		assert.Equal(t, 59, got.Second())
	})

	t.Run("summer day uses BST offset", func(t *testing.T) {
		in := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		got := EndOfDay(in)

		// 23:59:59 BST is 22:59:59 UTC
		assert.Equal(t, 22, got.UTC().Hour())
		assert.Equal(t, 1, got.In(london).Day())
	})

	t.Run("UTC evening is already the next London day in summer", func(t *testing.T) {
		// 23:30 UTC on 30 June is 00:30 BST on 1 July
		in := time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)
		got := EndOfDay(in).In(london)

		assert.Equal(t, time.July, got.Month())
		assert.Equal(t, 1, got.Day())
	})
}

func TestAddCalendarMonths(t *testing.T) {
	london := StudioLocation()

	t.Run("plain month", func(t *testing.T) {
		start := time.Date(2024, 3, 15, 9, 0, 0, 0, london)
		got := AddCalendarMonths(start, 1).In(london)

		assert.Equal(t, time.April, got.Month())
		assert.Equal(t, 15, got.Day())
		assert.Equal(t, 9, got.Hour())
	})

	t.Run("clamps 31 Jan to end of Feb", func(t *testing.T) {
		start := time.Date(2025, 1, 31, 12, 0, 0, 0, london)
		got := AddCalendarMonths(start, 1).In(london)

		assert.Equal(t, time.February, got.Month())
		assert.Equal(t, 28, got.Day())
	})

	t.Run("clamps into leap February", func(t *testing.T) {
		start := time.Date(2024, 1, 31, 12, 0, 0, 0, london)
		got := AddCalendarMonths(start, 1).In(london)

		assert.Equal(t, time.February, got.Month())
		assert.Equal(t, 29, got.Day())
	})

	t.Run("crosses year boundary", func(t *testing.T) {
		start := time.Date(2024, 11, 30, 12, 0, 0, 0, london)
		got := AddCalendarMonths(start, 3).In(london)

		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.February, got.Month())
		assert.Equal(t, 28, got.Day())
	})

	t.Run("negative months", func(t *testing.T) {
		start := time.Date(2025, 3, 31, 12, 0, 0, 0, london)
		got := AddCalendarMonths(start, -1).In(london)

		assert.Equal(t, time.February, got.Month())
		assert.Equal(t, 28, got.Day())
	})
}

func TestGenerateBookingReference(t *testing.T) {
	ref := GenerateBookingReference()
	require.Len(t, ref, 22)

	for _, c := range ref {
		assert.NotContains(t, "0O1lI", string(c))
	}

	assert.NotEqual(t, ref, GenerateBookingReference())
}
