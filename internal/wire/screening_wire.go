package wire

import (
	"showtime-engine/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireScreening(
	r chi.Router,
	screeningHandler *adaptor.ScreeningHandler,
	bookingHandler *adaptor.BookingHandler,
	pricingHandler *adaptor.PricingHandler,
) {
	// Conflicts before {id} so the literal path wins.
	r.Get("/api/screenings/conflicts", screeningHandler.CheckConflicts)
	r.Get("/api/screenings", screeningHandler.GetScreenings)
	r.Get("/api/screenings/{id}", screeningHandler.GetScreeningByID)
	r.Get("/api/screenings/{id}/seats", bookingHandler.GetAvailableSeats)
	r.Get("/api/screenings/{id}/occupancy", bookingHandler.GetOccupancy)
	r.Get("/api/screenings/{id}/pricing", pricingHandler.GetScreeningPrices)

	r.Route("/api/admin/screenings", func(r chi.Router) {
		r.Post("/", screeningHandler.CreateScreening)
		r.Post("/bulk", screeningHandler.BulkCreateScreenings)
		r.Put("/{id}", screeningHandler.UpdateScreening)
		r.Delete("/{id}", screeningHandler.DeleteScreening)
		r.Post("/{id}/optimize", pricingHandler.OptimizeFactors)
	})

	r.Post("/api/admin/lifecycle/sweep", screeningHandler.SweepStatuses)
}
