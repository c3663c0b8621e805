package wire

import (
	"net/http"

	"showtime-engine/internal/adaptor"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/middleware"
	"showtime-engine/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireCatalog(r, handler.Catalog)
	wireScreening(r, handler.Screening, handler.Booking, handler.Pricing)
	wireBooking(r, handler.Booking)
	wirePricing(r, handler.Pricing)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
