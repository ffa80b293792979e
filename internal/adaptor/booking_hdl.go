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

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Create(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
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

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.Cancel(r.Context(), userID.String(), bookingID, false)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ReopenBooking handles PUT /api/bookings/{id}/reopen (protected)
func (h *BookingHandler) ReopenBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.Reopen(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "reopen booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ==================== STAFF METHODS ====================

// GetBookingByID handles GET /api/admin/bookings/{id} (staff only)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// StaffCancelBooking handles PUT /api/admin/bookings/{id}/cancel (staff only).
// Staff cancellations ignore the event's cancellation period.
func (h *BookingHandler) StaffCancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.Cancel(r.Context(), userID.String(), bookingID, true)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ConfirmPayment handles PUT /api/admin/bookings/{id}/confirm-payment (staff only)
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// AssignBlock handles PUT /api/admin/bookings/{id}/block (staff only)
func (h *BookingHandler) AssignBlock(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.AssignBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.AssignBlock(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "assign block")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RemoveBlock handles DELETE /api/admin/bookings/{id}/block (staff only)
func (h *BookingHandler) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.RemoveBlock(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "remove block")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// SetFreeClass handles PUT /api/admin/bookings/{id}/free-class (staff only)
func (h *BookingHandler) SetFreeClass(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.SetFreeClass(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "grant free class")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RegisterAttendance handles PUT /api/admin/bookings/{id}/attendance (staff only)
func (h *BookingHandler) RegisterAttendance(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.RegisterAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.MarkAttended(r.Context(), bookingID, req.Attended)
	if err != nil {
		handleServiceError(w, h.log, err, "register attendance")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// MarkNoShow handles PUT /api/admin/bookings/{id}/no-show (staff only)
func (h *BookingHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.MarkNoShow(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "mark no-show")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
