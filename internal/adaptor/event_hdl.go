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

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// GetEvents handles GET /api/events (public)
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	upcomingOnly := query.Get("include_past") != "true"

	events, err := h.service.GetEvents(r.Context(), req, upcomingOnly)
	if err != nil {
		handleServiceError(w, h.log, err, "get events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEventByID handles GET /api/events/{id} (public)
func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.service.GetByID(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "get event by ID")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// GetEventTypes handles GET /api/event-types (public)
func (h *EventHandler) GetEventTypes(w http.ResponseWriter, r *http.Request) {
	eventTypes, err := h.service.GetEventTypes(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get event types")
		return
	}

	utils.ResponseSuccess(w, "success", eventTypes)
}

// ==================== STAFF METHODS ====================

// CreateEventType handles POST /api/admin/event-types (staff only)
func (h *EventHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEventTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	eventType, err := h.service.CreateEventType(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create event type")
		return
	}

	utils.ResponseCreated(w, "success", eventType)
}

// CreateEvent handles POST /api/admin/events (staff only)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req request.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// UpdateEvent handles PUT /api/admin/events/{id} (staff only)
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.Update(r.Context(), eventID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// CancelEvent handles PUT /api/admin/events/{id}/cancel (staff only)
func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.CancelEvent(r.Context(), eventID); err != nil {
		handleServiceError(w, h.log, err, "cancel event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
