package adaptor

import (
	"net/http"
	"time"

	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// GetScreeningPrices handles GET /api/screenings/{id}/pricing
func (h *PricingHandler) GetScreeningPrices(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	prices, err := h.service.GetScreeningPrices(r.Context(), screeningID)
	if err != nil {
		handleServiceError(h.log, w, err, "get screening prices")
		return
	}

	utils.ResponseSuccess(w, "success", prices)
}

// SuggestFactors handles GET /api/pricing/suggest?movie_id&start
func (h *PricingHandler) SuggestFactors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	movieID := query.Get("movie_id")
	if movieID == "" {
		utils.ResponseBadRequest(w, "movie_id is required", nil)
		return
	}

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		utils.ResponseBadRequest(w, "start must be RFC3339", nil)
		return
	}

	suggestion, err := h.service.SuggestFactors(r.Context(), movieID, start)
	if err != nil {
		handleServiceError(h.log, w, err, "suggest factors")
		return
	}

	utils.ResponseSuccess(w, "success", suggestion)
}

// OptimizeFactors handles POST /api/admin/screenings/{id}/optimize
func (h *PricingHandler) OptimizeFactors(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	optimized, err := h.service.OptimizeFactors(r.Context(), screeningID)
	if err != nil {
		handleServiceError(h.log, w, err, "optimize factors")
		return
	}

	utils.ResponseSuccess(w, "Factors optimized successfully", optimized)
}
