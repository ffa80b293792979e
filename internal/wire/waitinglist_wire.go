package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWaitingList(
	r chi.Router,
	waitingListHandler *adaptor.WaitingListHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/waiting-list - Join an event's waiting list
		r.Post("/api/waiting-list", waitingListHandler.Join)

		// DELETE /api/waiting-list/{eventID} - Leave an event's waiting list
		r.Delete("/api/waiting-list/{eventID}", waitingListHandler.Leave)
	})
}
