package usecase

import (
	"context"
	"fmt"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/dto/response"

	"go.uber.org/zap"
)

// StatusAt is the wall-clock status rule. The sweep and lazy per-screening
// evaluation both use it, so they converge for the same now. No transition
// is reversible except by this same rule re-evaluating as time (or an
// edited interval) changes.
func StatusAt(startTime, endTime, now time.Time) entity.ScreeningStatus {
	switch {
	case now.Before(startTime):
		return entity.ScreeningStatusUpcoming
	case now.Before(endTime):
		return entity.ScreeningStatusLive
	default:
		return entity.ScreeningStatusCompleted
	}
}

type LifecycleService interface {
	// Sweep applies the status rule to every screening. Idempotent, safe to
	// run concurrently with bookings.
	Sweep(ctx context.Context) (*response.SweepResponse, error)
}

type lifecycleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLifecycleService(repo *repository.Repository, log *zap.Logger) LifecycleService {
	return &lifecycleService{
		repo: repo,
		log:  log.With(zap.String("service", "lifecycle")),
	}
}

func (s *lifecycleService) Sweep(ctx context.Context) (*response.SweepResponse, error) {
	result, err := s.repo.Screening.SweepStatuses(ctx, time.Now())
	if err != nil {
		s.log.Error("Status sweep failed", zap.Error(err))
		return nil, fmt.Errorf("sweep screening statuses: %w", err)
	}

	if result.Upcoming+result.Live+result.Completed > 0 {
		s.log.Info("Status sweep applied",
			zap.Int64("upcoming", result.Upcoming),
			zap.Int64("live", result.Live),
			zap.Int64("completed", result.Completed),
		)
	}

	return &response.SweepResponse{
		Upcoming:  result.Upcoming,
		Live:      result.Live,
		Completed: result.Completed,
	}, nil
}
