package jobs

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// warningLeadTime is how far ahead of a payment deadline the warning email
// goes out.
const warningLeadTime = 48 * time.Hour

// warningMinBookingAge keeps the sweep from warning someone who booked
// minutes ago; the booking confirmation already told them what to pay.
const warningMinBookingAge = 2 * time.Hour

// emailWarnings emails unpaid bookings and ticket purchases approaching a
// payment deadline and flags them warning_sent so the next run skips them.
// The cancel sweeps require this flag before they will act on a deadline,
// so warnings always precede deadline cancellations.
type emailWarnings struct{ *Deps }

func (j *emailWarnings) Name() string { return "email_warnings" }

func (j *emailWarnings) Run(ctx context.Context) error {
	now := time.Now()

	warned, err := j.warnBookings(ctx, now)
	if err != nil {
		return err
	}
	ticketsWarned, err := j.warnTicketPurchases(ctx, now)
	if err != nil {
		return err
	}
	warned += ticketsWarned

	j.Metrics.RecordJobActions(j.Name(), "warned", warned)
	if warned == 0 {
		j.Log.Info("No payment warnings to send")
		j.logActivity(ctx, j.Name(), "Payment warning sweep found nothing to send")
	} else {
		j.Log.Info("Payment warnings sent", zap.Int("count", warned))
		j.logActivity(ctx, j.Name(), "Payment warning sweep sent %d warning(s)", warned)
	}

	return nil
}

func (j *emailWarnings) warnBookings(ctx context.Context, now time.Time) (int, error) {
	rows, err := j.Repo.Booking.FindUnpaidOpenForUpcoming(ctx, now)
	if err != nil {
		return 0, err
	}

	warned := 0
	for _, row := range rows {
		booking, event := &row.Booking, &row.Event

		if booking.WarningSent {
			continue
		}
		if now.Sub(booking.DateBooked) < warningMinBookingAge {
			continue
		}
		if !warningDue(booking, event, now) {
			continue
		}

		if j.DryRun {
			j.Log.Info("Dry run, would send payment warning",
				zap.String("booking_id", booking.ID.String()),
				zap.String("event", event.Name),
			)
			warned++
			continue
		}

		booking.WarningSent = true
		booking.DateWarningSent = &now
		if err := j.Repo.Booking.Update(ctx, booking); err != nil {
			j.Log.Error("Failed to flag warning sent",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}

		if email := j.userEmail(ctx, j.Name(), booking.UserID); email != "" {
			due := paymentDeadline(booking, event)
			j.Notifier.Send(ctx, "payment warning", []string{email},
				fmt.Sprintf("Payment reminder for %s", event.Name),
				fmt.Sprintf("Your booking for %s on %s is not yet paid.\n"+
					"Payment is due by %s; unpaid bookings are cancelled after that.\n",
					event.Name,
					event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"),
					due.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
		}
		warned++
	}

	return warned, nil
}

func (j *emailWarnings) warnTicketPurchases(ctx context.Context, now time.Time) (int, error) {
	if hour := now.In(utils.StudioLocation()).Hour(); hour < 7 || hour >= 22 {
		j.Log.Info("Outside sending hours, skipping ticket warnings", zap.Int("local_hour", hour))
		return 0, nil
	}

	rows, err := j.Repo.TicketBooking.FindUnpaidConfirmed(ctx, now)
	if err != nil {
		return 0, err
	}

	warned := 0
	for _, row := range rows {
		purchase, event := &row.TicketBooking, &row.Event

		if purchase.WarningSent {
			continue
		}
		if now.Sub(purchase.DateBooked) < warningMinBookingAge {
			continue
		}

		if j.DryRun {
			j.Log.Info("Dry run, would send ticket payment warning",
				zap.String("booking_reference", purchase.BookingReference),
				zap.String("event", event.Name),
			)
			warned++
			continue
		}

		purchase.WarningSent = true
		purchase.DateWarningSent = &now
		if err := j.Repo.TicketBooking.Update(ctx, purchase); err != nil {
			j.Log.Error("Failed to flag ticket warning sent",
				zap.Error(err),
				zap.String("ticket_booking_id", purchase.ID.String()),
			)
			continue
		}

		if email := j.userEmail(ctx, j.Name(), purchase.UserID); email != "" {
			j.Notifier.Send(ctx, "ticket payment warning", []string{email},
				fmt.Sprintf("Payment reminder for ticket purchase %s", purchase.BookingReference),
				fmt.Sprintf("Your ticket purchase %s for %s on %s is not yet paid.\n"+
					"Unpaid purchases are cancelled automatically.\n",
					purchase.BookingReference,
					event.Name,
					event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
		}
		warned++
	}

	return warned, nil
}

// warningDue reports whether the booking is close enough to a payment
// deadline to warrant the warning. Relative payment windows are short by
// nature, so any booking on such an event qualifies as soon as it is old
// enough.
func warningDue(booking *entity.Booking, event *entity.Event, now time.Time) bool {
	if event.PaymentTimeAllowed != nil || booking.FreeClassRequested {
		return true
	}
	if event.CancellationPeriod > 0 {
		deadline := event.Date.Add(-time.Duration(event.CancellationPeriod) * time.Hour)
		if deadline.Add(-warningLeadTime).Before(now) {
			return true
		}
	}
	if event.PaymentDueDate != nil && event.PaymentDueDate.Add(-warningLeadTime).Before(now) {
		return true
	}
	return false
}

// paymentDeadline picks the effective due time quoted in the warning: the
// cancellation-period deadline, overridden by a relative payment window,
// with an earlier explicit due date winning over both.
func paymentDeadline(booking *entity.Booking, event *entity.Event) time.Time {
	due := event.Date.Add(-time.Duration(event.CancellationPeriod) * time.Hour)

	switch {
	case booking.FreeClassRequested:
		due = booking.LastBooked().Add(freeClassPaymentHours * time.Hour)
	case event.PaymentTimeAllowed != nil:
		due = booking.LastBooked().Add(time.Duration(*event.PaymentTimeAllowed) * time.Hour)
	}

	if event.PaymentDueDate != nil && event.PaymentDueDate.Before(due) {
		due = *event.PaymentDueDate
	}
	return due
}
