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

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// GetTicketedEvents handles GET /api/ticketed-events (public)
func (h *TicketHandler) GetTicketedEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	events, err := h.service.GetUpcoming(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticketed events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// OpenPurchase handles POST /api/ticket-purchases (protected)
func (h *TicketHandler) OpenPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.OpenTicketPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	purchase, err := h.service.OpenPurchase(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "open ticket purchase")
		return
	}

	utils.ResponseCreated(w, "success", purchase)
}

// AddTickets handles POST /api/ticket-purchases/{id}/tickets (protected)
func (h *TicketHandler) AddTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	purchaseID := chi.URLParam(r, "id")
	if purchaseID == "" {
		utils.ResponseBadRequest(w, "Purchase ID is required", nil)
		return
	}

	var req request.AddTicketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	purchase, err := h.service.AddTickets(r.Context(), userID.String(), purchaseID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add tickets")
		return
	}

	utils.ResponseSuccess(w, "success", purchase)
}

// ConfirmPurchase handles PUT /api/ticket-purchases/{id}/confirm (protected)
func (h *TicketHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	purchaseID := chi.URLParam(r, "id")
	if purchaseID == "" {
		utils.ResponseBadRequest(w, "Purchase ID is required", nil)
		return
	}

	purchase, err := h.service.ConfirmPurchase(r.Context(), userID.String(), purchaseID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm ticket purchase")
		return
	}

	utils.ResponseSuccess(w, "success", purchase)
}

// CancelPurchase handles PUT /api/ticket-purchases/{id}/cancel (protected)
func (h *TicketHandler) CancelPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	purchaseID := chi.URLParam(r, "id")
	if purchaseID == "" {
		utils.ResponseBadRequest(w, "Purchase ID is required", nil)
		return
	}

	purchase, err := h.service.CancelPurchase(r.Context(), userID.String(), purchaseID, false)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel ticket purchase")
		return
	}

	utils.ResponseSuccess(w, "success", purchase)
}

// GetUserPurchases handles GET /api/user/ticket-purchases (protected)
func (h *TicketHandler) GetUserPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	purchases, err := h.service.GetUserPurchases(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user ticket purchases")
		return
	}

	utils.ResponseSuccess(w, "success", purchases)
}

// ==================== STAFF METHODS ====================

// CreateTicketedEvent handles POST /api/admin/ticketed-events (staff only)
func (h *TicketHandler) CreateTicketedEvent(w http.ResponseWriter, r *http.Request) {
	var req request.TicketedEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create ticketed event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// UpdateTicketedEvent handles PUT /api/admin/ticketed-events/{id} (staff only)
func (h *TicketHandler) UpdateTicketedEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.TicketedEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), eventID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update ticketed event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// CancelTicketedEvent handles PUT /api/admin/ticketed-events/{id}/cancel (staff only)
func (h *TicketHandler) CancelTicketedEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.CancelEvent(r.Context(), eventID); err != nil {
		handleServiceError(w, h.log, err, "cancel ticketed event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ConfirmTicketPayment handles PUT /api/admin/ticket-purchases/{id}/confirm-payment (staff only)
func (h *TicketHandler) ConfirmTicketPayment(w http.ResponseWriter, r *http.Request) {
	purchaseID := chi.URLParam(r, "id")
	if purchaseID == "" {
		utils.ResponseBadRequest(w, "Purchase ID is required", nil)
		return
	}

	purchase, err := h.service.ConfirmPayment(r.Context(), purchaseID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm ticket payment")
		return
	}

	utils.ResponseSuccess(w, "success", purchase)
}

// StaffCancelPurchase handles PUT /api/admin/ticket-purchases/{id}/cancel (staff only)
func (h *TicketHandler) StaffCancelPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	purchaseID := chi.URLParam(r, "id")
	if purchaseID == "" {
		utils.ResponseBadRequest(w, "Purchase ID is required", nil)
		return
	}

	purchase, err := h.service.CancelPurchase(r.Context(), userID.String(), purchaseID, true)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel ticket purchase")
		return
	}

	utils.ResponseSuccess(w, "success", purchase)
}
