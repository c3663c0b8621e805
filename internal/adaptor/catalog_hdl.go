package adaptor

import (
	"net/http"

	"showtime-engine/internal/dto/request"
	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetMovies handles GET /api/movies
func (h *CatalogHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	movies, err := h.service.GetMovies(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovieByID handles GET /api/movies/{id}
func (h *CatalogHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	if movieID == "" {
		utils.ResponseBadRequest(w, "Movie ID is required", nil)
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		handleServiceError(h.log, w, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// GetScreenByID handles GET /api/screens/{id}
func (h *CatalogHandler) GetScreenByID(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")
	if screenID == "" {
		utils.ResponseBadRequest(w, "Screen ID is required", nil)
		return
	}

	screen, err := h.service.GetScreenByID(r.Context(), screenID)
	if err != nil {
		handleServiceError(h.log, w, err, "get screen by ID")
		return
	}

	utils.ResponseSuccess(w, "success", screen)
}
