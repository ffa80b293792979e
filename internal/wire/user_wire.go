package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/user/profile - Own profile
		r.Get("/api/user/profile", userHandler.GetProfile)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// PUT /api/admin/users/{id}/regular-student - Grant or revoke the flag
		r.Put("/{id}/regular-student", userHandler.SetRegularStudent)
	})
}
