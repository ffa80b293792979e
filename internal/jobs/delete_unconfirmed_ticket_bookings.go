package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// unconfirmedPurchaseTTL is how long an unconfirmed purchase may sit
// before the purge removes it and releases its tickets.
const unconfirmedPurchaseTTL = time.Hour

// deleteUnconfirmedTicketBookings purges abandoned ticket purchases that
// were never confirmed. The rows are removed outright rather than
// cancelled, and nobody is emailed; the user never finished checking out.
type deleteUnconfirmedTicketBookings struct{ *Deps }

func (j *deleteUnconfirmedTicketBookings) Name() string {
	return "delete_unconfirmed_ticket_bookings"
}

func (j *deleteUnconfirmedTicketBookings) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-unconfirmedPurchaseTTL)

	purchases, err := j.Repo.TicketBooking.FindUnconfirmedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	deleted := 0
	for _, purchase := range purchases {
		if j.DryRun {
			j.Log.Info("Dry run, would delete unconfirmed ticket purchase",
				zap.String("booking_reference", purchase.BookingReference),
				zap.Time("date_booked", purchase.DateBooked),
			)
			deleted++
			continue
		}

		if err := j.Repo.TicketBooking.HardDelete(ctx, purchase.ID); err != nil {
			j.Log.Error("Failed to delete unconfirmed ticket purchase",
				zap.Error(err),
				zap.String("ticket_booking_id", purchase.ID.String()),
			)
			continue
		}

		j.logActivity(ctx, j.Name(),
			"Unconfirmed ticket purchase %s deleted", purchase.BookingReference)
		deleted++
	}

	j.Metrics.RecordJobActions(j.Name(), "deleted", deleted)
	if deleted == 0 {
		j.Log.Info("No unconfirmed ticket purchases to delete")
		j.logActivity(ctx, j.Name(), "Unconfirmed purchase sweep found nothing to delete")
	} else {
		j.Log.Info("Unconfirmed ticket purchases deleted", zap.Int("count", deleted))
		j.logActivity(ctx, j.Name(), "Unconfirmed purchase sweep deleted %d purchase(s)", deleted)
	}

	return nil
}
