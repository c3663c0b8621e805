package repository

import (
	"showtime-engine/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie          MovieRepository
	Screen         ScreenRepository
	Screening      ScreeningRepository
	ScreeningSeat  ScreeningSeatRepository
	PricingHistory PricingHistoryRepository
	Booking        BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:          NewMovieRepository(db, log),
		Screen:         NewScreenRepository(db, log),
		Screening:      NewScreeningRepository(db, log),
		ScreeningSeat:  NewScreeningSeatRepository(db, log),
		PricingHistory: NewPricingHistoryRepository(db, log),
		Booking:        NewBookingRepository(db, log),
	}
}
