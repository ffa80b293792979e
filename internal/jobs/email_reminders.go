package jobs

import (
	"context"
	"fmt"
	"time"

	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// emailReminders emails open bookings whose event enters the reminder
// window, one reminder per booking. The window is the cancellation period
// plus a day, so the reminder lands while cancelling is still free.
type emailReminders struct{ *Deps }

func (j *emailReminders) Name() string { return "email_reminders" }

func (j *emailReminders) Run(ctx context.Context) error {
	now := time.Now()

	rows, err := j.Repo.Booking.FindForReminders(ctx, now)
	if err != nil {
		return err
	}

	reminded := 0
	for _, row := range rows {
		booking, event := &row.Booking, &row.Event

		if j.DryRun {
			j.Log.Info("Dry run, would send reminder",
				zap.String("booking_id", booking.ID.String()),
				zap.String("event", event.Name),
			)
			reminded++
			continue
		}

		booking.ReminderSent = true
		if err := j.Repo.Booking.Update(ctx, booking); err != nil {
			j.Log.Error("Failed to flag reminder sent",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}

		if email := j.userEmail(ctx, j.Name(), booking.UserID); email != "" {
			body := fmt.Sprintf("A reminder that you are booked for %s on %s at %s.\n",
				event.Name,
				event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"),
				event.Location)
			if event.Cost > 0 && event.AdvancePaymentRequired && !booking.Paid {
				body += "\nThis booking is not yet paid. Unpaid bookings may be cancelled.\n"
			}
			j.Notifier.Send(ctx, "booking reminder", []string{email},
				fmt.Sprintf("Reminder: %s", event.Name), body)
		}
		reminded++
	}

	j.Metrics.RecordJobActions(j.Name(), "reminded", reminded)
	if reminded == 0 {
		j.Log.Info("No reminders to send")
		j.logActivity(ctx, j.Name(), "Reminder sweep found nothing to send")
	} else {
		j.Log.Info("Reminders sent", zap.Int("count", reminded))
		j.logActivity(ctx, j.Name(), "Reminder sweep sent %d reminder(s)", reminded)
	}

	return nil
}
