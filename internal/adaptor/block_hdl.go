package adaptor

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BlockHandler struct {
	service usecase.BlockService
	log     *zap.Logger
}

func NewBlockHandler(service usecase.BlockService, log *zap.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		log:     log.With(zap.String("handler", "block")),
	}
}

// GetBlockTypes handles GET /api/block-types (public)
func (h *BlockHandler) GetBlockTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	blockTypes, err := h.service.GetBlockTypes(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(w, h.log, err, "get block types")
		return
	}

	utils.ResponseSuccess(w, "success", blockTypes)
}

// PurchaseBlock handles POST /api/blocks (protected)
func (h *BlockHandler) PurchaseBlock(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.PurchaseBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	block, err := h.service.Purchase(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "purchase block")
		return
	}

	utils.ResponseCreated(w, "success", block)
}

// GetUserBlocks handles GET /api/user/blocks (protected)
func (h *BlockHandler) GetUserBlocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	blocks, err := h.service.GetUserBlocks(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get user blocks")
		return
	}

	utils.ResponseSuccess(w, "success", blocks)
}

// ==================== STAFF METHODS ====================

// CreateBlockType handles POST /api/admin/block-types (staff only)
func (h *BlockHandler) CreateBlockType(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBlockTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	blockType, err := h.service.CreateBlockType(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create block type")
		return
	}

	utils.ResponseCreated(w, "success", blockType)
}

// MarkBlockPaid handles PUT /api/admin/blocks/{id}/paid (staff only)
func (h *BlockHandler) MarkBlockPaid(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "id")
	if blockID == "" {
		utils.ResponseBadRequest(w, "Block ID is required", nil)
		return
	}

	block, err := h.service.MarkPaid(r.Context(), blockID)
	if err != nil {
		handleServiceError(w, h.log, err, "mark block paid")
		return
	}

	utils.ResponseSuccess(w, "success", block)
}

// DeleteBlock handles DELETE /api/admin/blocks/{id} (staff only).
// Bookings paid by the block revert to unpaid.
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "id")
	if blockID == "" {
		utils.ResponseBadRequest(w, "Block ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), blockID); err != nil {
		handleServiceError(w, h.log, err, "delete block")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
