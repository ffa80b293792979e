package usecase

import (
	"context"
	"strings"
	"testing"

	"studio-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierFailureDoesNotRollBackMutation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(0))
	alice := f.addUser("alice@example.com")
	booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID, Paid: true})

	f.sender.failTo[alice.Email] = true

	_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
	require.NoError(t, err, "a failed email must not fail the cancellation")

	stored := f.bookings.get(booking.ID)
	assert.Equal(t, entity.BookingCancelled, stored.Status)

	// The failure is reported to the support address instead.
	var supportMail bool
	for _, msg := range f.sender.messages() {
		for _, to := range msg.To {
			if to == "support@example.com" && strings.Contains(msg.Subject, "EXCEPTION") {
				supportMail = true
			}
		}
	}
	assert.True(t, supportMail)
}

func TestNotifierDoubleFailureFallsBackToActivityLog(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ev := f.addEvent(openEvent(0))
	alice := f.addUser("alice@example.com")
	booking := f.addBooking(&entity.Booking{UserID: alice.ID, EventID: ev.ID})

	f.sender.failTo[alice.Email] = true
	f.sender.failTo["support@example.com"] = true

	_, err := f.svc.Booking.Cancel(ctx, alice.ID.String(), booking.ID.String(), false)
	require.NoError(t, err)

	var logged bool
	for _, line := range f.activity.all() {
		if strings.Contains(line, "support email failed") {
			logged = true
		}
	}
	assert.True(t, logged, "double failure should leave an activity log trace")
}
