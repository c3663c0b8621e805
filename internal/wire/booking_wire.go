package wire

import (
	"showtime-engine/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Post("/api/bookings", bookingHandler.CreateBooking)
	r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)
	r.Post("/api/bookings/{id}/confirm", bookingHandler.ConfirmBooking)
	r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	r.Get("/api/bookings/{id}/price", bookingHandler.CalculateTotalPrice)
	r.Get("/api/users/{id}/bookings", bookingHandler.GetUserBookings)
}
