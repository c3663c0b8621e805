package adaptor

import (
	"encoding/json"
	"net/http"

	"showtime-engine/internal/dto/request"
	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/utils"

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

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), req.UserID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// ConfirmBooking handles POST /api/bookings/{id}/confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "Booking confirmed successfully", booking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled successfully", booking)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/users/{id}/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CalculateTotalPrice handles GET /api/bookings/{id}/price
func (h *BookingHandler) CalculateTotalPrice(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	price, err := h.service.CalculateTotalPrice(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "calculate total price")
		return
	}

	utils.ResponseSuccess(w, "success", price)
}

// GetAvailableSeats handles GET /api/screenings/{id}/seats
func (h *BookingHandler) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	seatMap, err := h.service.GetAvailableSeats(r.Context(), screeningID)
	if err != nil {
		handleServiceError(h.log, w, err, "get available seats")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// GetOccupancy handles GET /api/screenings/{id}/occupancy
func (h *BookingHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	occupancy, err := h.service.GetOccupancy(r.Context(), screeningID)
	if err != nil {
		handleServiceError(h.log, w, err, "get occupancy")
		return
	}

	utils.ResponseSuccess(w, "success", occupancy)
}
