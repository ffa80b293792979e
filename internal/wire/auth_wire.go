package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/auth/register - Create account
	r.Post("/api/auth/register", authHandler.Register)

	// POST /api/auth/login - Login with username or email
	r.Post("/api/auth/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/auth/logout - Revoke current session
		r.Post("/api/auth/logout", authHandler.Logout)
	})
}
