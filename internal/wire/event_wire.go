package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/events - List events (upcoming by default)
	r.Get("/api/events", eventHandler.GetEvents)

	// GET /api/events/{id} - Event details with spaces left
	r.Get("/api/events/{id}", eventHandler.GetEventByID)

	// GET /api/event-types - List event types
	r.Get("/api/event-types", eventHandler.GetEventTypes)

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/events", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// POST /api/admin/events - Create event
		r.Post("/", eventHandler.CreateEvent)

		// PUT /api/admin/events/{id} - Update event
		r.Put("/{id}", eventHandler.UpdateEvent)

		// PUT /api/admin/events/{id}/cancel - Cancel event and its bookings
		r.Put("/{id}/cancel", eventHandler.CancelEvent)
	})

	r.Route("/api/admin/event-types", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// POST /api/admin/event-types - Create event type
		r.Post("/", eventHandler.CreateEventType)
	})
}
