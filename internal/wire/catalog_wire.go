package wire

import (
	"showtime-engine/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	r.Get("/api/movies", catalogHandler.GetMovies)
	r.Get("/api/movies/{id}", catalogHandler.GetMovieByID)
	r.Get("/api/screens/{id}", catalogHandler.GetScreenByID)
}
