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

type WaitingListHandler struct {
	service usecase.WaitingListService
	log     *zap.Logger
}

func NewWaitingListHandler(service usecase.WaitingListService, log *zap.Logger) *WaitingListHandler {
	return &WaitingListHandler{
		service: service,
		log:     log.With(zap.String("handler", "waiting_list")),
	}
}

// Join handles POST /api/waiting-list (protected)
func (h *WaitingListHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.JoinWaitingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Join(r.Context(), userID.String(), &req); err != nil {
		handleServiceError(w, h.log, err, "join waiting list")
		return
	}

	utils.ResponseCreated(w, "success", nil)
}

// Leave handles DELETE /api/waiting-list/{eventID} (protected)
func (h *WaitingListHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.Leave(r.Context(), userID.String(), eventID); err != nil {
		handleServiceError(w, h.log, err, "leave waiting list")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
