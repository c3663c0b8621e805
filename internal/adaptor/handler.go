package adaptor

import (
	"errors"
	"net/http"

	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog   *CatalogHandler
	Screening *ScreeningHandler
	Booking   *BookingHandler
	Pricing   *PricingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Catalog:   NewCatalogHandler(service.Catalog, log),
		Screening: NewScreeningHandler(service.Schedule, service.Lifecycle, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Pricing:   NewPricingHandler(service.Pricing, log),
	}
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Conflict-class errors carry their detail payload in the errors field so
// callers see every problem seat or clashing screening, not just a message.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError
	var conflictErr *usecase.ConflictError
	var seatUnavailableErr *usecase.SeatUnavailableError
	var seatNotFoundErr *usecase.SeatNotFoundError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, validationErr.Message, validationErr.Fields)

	case errors.As(err, &conflictErr):
		log.Warn(operation+" failed - schedule conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), conflictErr.Conflicts)

	case errors.As(err, &seatUnavailableErr):
		log.Warn(operation+" failed - seats unavailable", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), map[string][]string{
			"already_booked": seatUnavailableErr.AlreadyBooked,
			"not_bookable":   seatUnavailableErr.NotBookable,
		})

	case errors.As(err, &seatNotFoundErr):
		log.Warn(operation+" failed - seat not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrMovieNotFound),
		errors.Is(err, usecase.ErrScreenNotFound),
		errors.Is(err, usecase.ErrScreeningNotFound),
		errors.Is(err, usecase.ErrBookingNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrBookingClosed),
		errors.Is(err, usecase.ErrShowNotEnded),
		errors.Is(err, usecase.ErrBookingNotPending),
		errors.Is(err, usecase.ErrBookingCancelled):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
