package wire

import (
	"showtime-engine/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePricing(r chi.Router, pricingHandler *adaptor.PricingHandler) {
	r.Get("/api/pricing/suggest", pricingHandler.SuggestFactors)
}
