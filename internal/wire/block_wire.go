package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBlock(
	r chi.Router,
	blockHandler *adaptor.BlockHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/block-types - List purchasable block types
	r.Get("/api/block-types", blockHandler.GetBlockTypes)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/blocks - Purchase a block of class credits
		r.Post("/api/blocks", blockHandler.PurchaseBlock)

		// GET /api/user/blocks - Own blocks with usage and expiry
		r.Get("/api/user/blocks", blockHandler.GetUserBlocks)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/block-types", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// POST /api/admin/block-types - Create block type
		r.Post("/", blockHandler.CreateBlockType)
	})

	r.Route("/api/admin/blocks", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(repo.User, log))

		// PUT /api/admin/blocks/{id}/paid - Mark block paid, restarting its expiry
		r.Put("/{id}/paid", blockHandler.MarkBlockPaid)

		// DELETE /api/admin/blocks/{id} - Delete block, reverting its bookings to unpaid
		r.Delete("/{id}", blockHandler.DeleteBlock)
	})
}
