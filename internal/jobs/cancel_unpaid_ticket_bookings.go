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

// ticketMinPaymentHours is the floor on a ticketed event's relative
// payment window; a shorter configured window still gets this long.
const ticketMinPaymentHours = 6

// ticketWarningBuffer is how long after the warning email a purchase is
// safe from cancellation, so a warning and a cancellation never arrive in
// the same inbox sweep.
const ticketWarningBuffer = 2 * time.Hour

// cancelUnpaidTicketBookings cancels confirmed unpaid ticket purchases
// past their payment deadline. An explicit due date on the event wins over
// the relative window. The job only acts during studio waking hours so
// nobody gets a cancellation email at 4am.
type cancelUnpaidTicketBookings struct{ *Deps }

func (j *cancelUnpaidTicketBookings) Name() string { return "cancel_unpaid_ticket_bookings" }

func (j *cancelUnpaidTicketBookings) Run(ctx context.Context) error {
	now := time.Now()

	if hour := now.In(utils.StudioLocation()).Hour(); hour < 9 || hour >= 22 {
		j.Log.Info("Outside sending hours, skipping", zap.Int("local_hour", hour))
		return nil
	}

	rows, err := j.Repo.TicketBooking.FindUnpaidConfirmed(ctx, now)
	if err != nil {
		return err
	}

	var summary []string
	for _, row := range rows {
		purchase, event := &row.TicketBooking, &row.Event

		if !ticketPaymentOverdue(purchase, event, now) {
			continue
		}

		if j.DryRun {
			j.Log.Info("Dry run, would cancel unpaid ticket purchase",
				zap.String("booking_reference", purchase.BookingReference),
				zap.String("event", event.Name),
			)
			summary = append(summary, describeTicketCancellation(purchase, event))
			continue
		}

		purchase.Cancelled = true
		purchase.Paid = false
		if err := j.Repo.TicketBooking.Update(ctx, purchase); err != nil {
			j.Log.Error("Failed to cancel ticket purchase",
				zap.Error(err),
				zap.String("ticket_booking_id", purchase.ID.String()),
			)
			continue
		}

		j.logActivity(ctx, j.Name(),
			"Unpaid ticket purchase %s for %s automatically cancelled",
			purchase.BookingReference, event.Name)

		if email := j.userEmail(ctx, j.Name(), purchase.UserID); email != "" {
			j.Notifier.Send(ctx, "automatic ticket cancellation", []string{email},
				fmt.Sprintf("Ticket purchase for %s cancelled", event.Name),
				fmt.Sprintf("Your unpaid ticket purchase %s for %s on %s has been "+
					"automatically cancelled.\n",
					purchase.BookingReference,
					event.Name,
					event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04")))
		}
		summary = append(summary, describeTicketCancellation(purchase, event))
	}

	j.Metrics.RecordJobActions(j.Name(), "cancelled", len(summary))

	if len(summary) == 0 {
		j.Log.Info("No unpaid ticket purchases to cancel")
		j.logActivity(ctx, j.Name(), "Ticket cancellation sweep found nothing to cancel")
		return nil
	}

	j.Log.Info("Unpaid ticket purchases cancelled", zap.Int("count", len(summary)))
	j.logActivity(ctx, j.Name(), "Ticket cancellation sweep cancelled %d purchase(s)", len(summary))
	if !j.DryRun {
		j.Notifier.SendStudio(ctx, "automatic ticket cancellation summary",
			fmt.Sprintf("%d unpaid ticket purchase(s) automatically cancelled", len(summary)),
			"The following unpaid ticket purchases have been automatically cancelled:\n\n"+
				strings.Join(summary, "\n")+"\n")
	}

	return nil
}

// ticketPaymentOverdue reports whether the purchase missed its deadline.
// Anyone warned within the buffer is left alone so a warning and a
// cancellation never land in the same inbox sweep. The due-date branch
// additionally requires a warning to have been sent at all; the relative
// window does not.
func ticketPaymentOverdue(purchase *entity.TicketBooking, event *entity.TicketedEvent, now time.Time) bool {
	if purchase.DateWarningSent != nil && now.Sub(*purchase.DateWarningSent) < ticketWarningBuffer {
		return false
	}

	switch {
	case event.PaymentDueDate != nil:
		return purchase.WarningSent && event.PaymentDueDate.Before(now)
	case event.PaymentTimeAllowed != nil:
		allowed := *event.PaymentTimeAllowed
		if allowed < ticketMinPaymentHours {
			allowed = ticketMinPaymentHours
		}
		return purchase.LastBooked().Add(time.Duration(allowed) * time.Hour).Before(now)
	default:
		return false
	}
}

func describeTicketCancellation(purchase *entity.TicketBooking, event *entity.TicketedEvent) string {
	return fmt.Sprintf("- purchase %s, %s on %s",
		purchase.BookingReference,
		event.Name,
		event.Date.In(utils.StudioLocation()).Format("Mon 02 Jan 2006 15:04"))
}
