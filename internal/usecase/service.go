package usecase

import (
	"showtime-engine/internal/data/repository"
	"showtime-engine/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Catalog   CatalogService
	Schedule  ScheduleService
	Booking   BookingService
	Pricing   PricingService
	Lifecycle LifecycleService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Catalog:   NewCatalogService(repo, log),
		Schedule:  NewScheduleService(repo, log),
		Booking:   NewBookingService(repo, config, log),
		Pricing:   NewPricingService(repo, log),
		Lifecycle: NewLifecycleService(repo, log),
	}
}
