package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Book an event (reopens a cancelled row if one exists)
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - Own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// PUT /api/bookings/{id}/cancel - Cancel own booking (within cancellation period)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/bookings/{id}/reopen - Rebook a cancelled booking
		r.Put("/api/bookings/{id}/reopen", bookingHandler.ReopenBooking)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// GET /api/admin/bookings/{id} - Any booking's details
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/admin/bookings/{id}/cancel - Cancel, ignoring the cancellation period
		r.Put("/{id}/cancel", bookingHandler.StaffCancelBooking)

		// PUT /api/admin/bookings/{id}/confirm-payment - Confirm payment received
		r.Put("/{id}/confirm-payment", bookingHandler.ConfirmPayment)

		// PUT /api/admin/bookings/{id}/block - Pay with a block credit
		r.Put("/{id}/block", bookingHandler.AssignBlock)

		// DELETE /api/admin/bookings/{id}/block - Detach the block credit
		r.Delete("/{id}/block", bookingHandler.RemoveBlock)

		// PUT /api/admin/bookings/{id}/free-class - Grant a free class
		r.Put("/{id}/free-class", bookingHandler.SetFreeClass)

		// PUT /api/admin/bookings/{id}/attendance - Register attendance
		r.Put("/{id}/attendance", bookingHandler.RegisterAttendance)

		// PUT /api/admin/bookings/{id}/no-show - Mark a no-show
		r.Put("/{id}/no-show", bookingHandler.MarkNoShow)
	})
}
