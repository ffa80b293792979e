package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// unpaidGraceWindow is how long after booking (or rebooking) a booking is
// safe from the unpaid sweep, whatever its deadlines say.
const unpaidGraceWindow = 4 * time.Hour

// freeClassPaymentHours is the payment window for free class requests,
// which always overrides the event's own payment_time_allowed.
const freeClassPaymentHours = 24

// cancelUnpaidBookings cancels open unpaid bookings for upcoming events
// that require advance payment, once their payment deadline has passed.
// Deadline-based cancellations require a warning to have been sent first;
// the relative payment_time_allowed window does not.
type cancelUnpaidBookings struct{ *Deps }

func (j *cancelUnpaidBookings) Name() string { return "cancel_unpaid_bookings" }

func (j *cancelUnpaidBookings) Run(ctx context.Context) error {
	now := time.Now()

	rows, err := j.Repo.Booking.FindUnpaidOpenForUpcoming(ctx, now)
	if err != nil {
		return err
	}

	var summary []string
	for _, row := range rows {
		booking, event := &row.Booking, &row.Event

		if now.Sub(booking.LastBooked()) < unpaidGraceWindow {
			continue
		}
		if !paymentOverdue(booking, event, now) {
			continue
		}

		if j.DryRun {
			j.Log.Info("Dry run, would cancel unpaid booking",
				zap.String("booking_id", booking.ID.String()),
				zap.String("event", event.Name),
			)
			summary = append(summary, describeCancellation(booking, event))
			continue
		}

		if err := j.cancel(ctx, booking, event); err != nil {
			j.Log.Error("Failed to cancel unpaid booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}
		summary = append(summary, describeCancellation(booking, event))
	}

	j.Metrics.RecordJobActions(j.Name(), "cancelled", len(summary))

	if len(summary) == 0 {
		j.Log.Info("No unpaid bookings to cancel")
		j.logActivity(ctx, j.Name(), "Unpaid booking sweep found nothing to cancel")
		return nil
	}

	j.Log.Info("Unpaid bookings cancelled", zap.Int("count", len(summary)))
	j.logActivity(ctx, j.Name(), "Unpaid booking sweep cancelled %d booking(s)", len(summary))
	if !j.DryRun {
		plural := "s have"
		if len(summary) == 1 {
			plural = " has"
		}
		j.Notifier.SendStudio(ctx, "automatic cancellation summary",
			fmt.Sprintf("%d booking%s been automatically cancelled", len(summary), plural),
			"The following unpaid bookings have been automatically cancelled:\n\n"+
				strings.Join(summary, "\n")+"\n")
	}

	return nil
}

// paymentOverdue decides whether the booking has missed its payment
// deadline. Three deadlines apply, checked in order: the event's
// cancellation-period deadline, its explicit payment due date, and the
// relative payment window counted from when the booking last claimed its
// space. The first two only fire once a warning has gone out; the relative
// window fires on its own.
func paymentOverdue(booking *entity.Booking, event *entity.Event, now time.Time) bool {
	cancellationDeadline := event.Date.Add(-time.Duration(event.CancellationPeriod) * time.Hour)
	if booking.WarningSent && cancellationDeadline.Before(now) {
		return true
	}
	if booking.WarningSent && event.PaymentDueDate != nil && event.PaymentDueDate.Before(now) {
		return true
	}

	allowed := 0
	switch {
	case booking.FreeClassRequested:
		allowed = freeClassPaymentHours
	case event.PaymentTimeAllowed != nil:
		allowed = *event.PaymentTimeAllowed
	default:
		return false
	}
	return booking.LastBooked().Add(time.Duration(allowed) * time.Hour).Before(now)
}

func (j *cancelUnpaidBookings) cancel(ctx context.Context, booking *entity.Booking, event *entity.Event) error {
	openCount, err := j.Repo.Booking.CountOpenByEventID(ctx, event.ID)
	if err != nil {
		return err
	}
	wasFull := event.SpacesLeft(openCount) == 0

	booking.Status = entity.BookingCancelled
	booking.Paid = false
	booking.PaymentConfirmed = false
	booking.DatePaymentConfirmed = nil
	booking.BlockID = nil
	booking.AutoCancelled = true

	if err := j.Repo.Booking.Update(ctx, booking); err != nil {
		return err
	}

	email := j.userEmail(ctx, j.Name(), booking.UserID)
	j.logActivity(ctx, j.Name(),
		"Unpaid booking %s for event %s automatically cancelled",
		booking.ID.String(), event.Name)

	if email != "" {
		j.Notifier.Send(ctx, "automatic cancellation", []string{email},
			fmt.Sprintf("Booking for %s cancelled", event.Name),
			fmt.Sprintf("Your unpaid booking for %s on %s has been automatically cancelled.\n"+
				"If you still want to attend, please book again and pay promptly.\n",
				event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
	}

	if wasFull {
		j.notifyWaitingList(ctx, event)
	}

	return nil
}

// notifyWaitingList tells everyone waiting for the event that the
// cancellation opened a space. Notification only; nobody is booked.
func (j *cancelUnpaidBookings) notifyWaitingList(ctx context.Context, event *entity.Event) {
	entries, err := j.Repo.WaitingList.FindByEventID(ctx, event.ID)
	if err != nil {
		j.Log.Error("Failed to load waiting list",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return
	}
	if len(entries) == 0 {
		return
	}

	var emails []string
	for _, entry := range entries {
		if email := j.userEmail(ctx, j.Name(), entry.UserID); email != "" {
			emails = append(emails, email)
		}
	}
	if len(emails) == 0 {
		return
	}

	j.Notifier.SendBcc(ctx, "waiting list notification", emails,
		fmt.Sprintf("A space is available for %s", event.Name),
		fmt.Sprintf("A space has opened up for %s on %s. Spaces go to the first person to book.\n",
			event.Name,
			event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))

	j.logActivity(ctx, j.Name(),
		"Waiting list for event %s notified after automatic cancellation", event.Name)
}

func describeCancellation(booking *entity.Booking, event *entity.Event) string {
	return fmt.Sprintf("- booking %s, %s on %s",
		booking.ID.String(),
		event.Name,
		event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"))
}
