package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTicket(
	r chi.Router,
	ticketHandler *adaptor.TicketHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/ticketed-events - Upcoming ticketed events shown on site
	r.Get("/api/ticketed-events", ticketHandler.GetTicketedEvents)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/ticket-purchases - Open a ticket purchase
		r.Post("/api/ticket-purchases", ticketHandler.OpenPurchase)

		// POST /api/ticket-purchases/{id}/tickets - Add tickets to the purchase
		r.Post("/api/ticket-purchases/{id}/tickets", ticketHandler.AddTickets)

		// PUT /api/ticket-purchases/{id}/confirm - Confirm the purchase
		r.Put("/api/ticket-purchases/{id}/confirm", ticketHandler.ConfirmPurchase)

		// PUT /api/ticket-purchases/{id}/cancel - Cancel own purchase
		r.Put("/api/ticket-purchases/{id}/cancel", ticketHandler.CancelPurchase)

		// GET /api/user/ticket-purchases - Own purchase history
		r.Get("/api/user/ticket-purchases", ticketHandler.GetUserPurchases)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/ticketed-events", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// POST /api/admin/ticketed-events - Create ticketed event
		r.Post("/", ticketHandler.CreateTicketedEvent)

		// PUT /api/admin/ticketed-events/{id} - Update ticketed event
		r.Put("/{id}", ticketHandler.UpdateTicketedEvent)

		// PUT /api/admin/ticketed-events/{id}/cancel - Cancel event and its purchases
		r.Put("/{id}/cancel", ticketHandler.CancelTicketedEvent)
	})

	r.Route("/api/admin/ticket-purchases", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// PUT /api/admin/ticket-purchases/{id}/confirm-payment - Confirm payment received
		r.Put("/{id}/confirm-payment", ticketHandler.ConfirmTicketPayment)

		// PUT /api/admin/ticket-purchases/{id}/cancel - Cancel any purchase
		r.Put("/{id}/cancel", ticketHandler.StaffCancelPurchase)
	})
}
