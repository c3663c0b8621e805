package usecase

import (
	"context"
	"fmt"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/dto/request"
	"showtime-engine/internal/dto/response"
	"showtime-engine/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	CreateScreening(ctx context.Context, req *request.CreateScreeningRequest) (*response.ScreeningResponse, error)

	// BulkCreateScreenings validates every entry (including pairwise overlap
	// inside the batch) before persisting; inserts are all-or-nothing.
	BulkCreateScreenings(ctx context.Context, req *request.BulkCreateScreeningsRequest) ([]*response.ScreeningResponse, error)

	UpdateScreening(ctx context.Context, screeningID string, req *request.UpdateScreeningRequest) (*response.ScreeningUpdateResponse, error)
	DeleteScreening(ctx context.Context, screeningID string) error
	GetScreeningByID(ctx context.Context, screeningID string) (*response.ScreeningDetailResponse, error)
	GetScreenings(ctx context.Context, req *request.PaginatedRequest, status, movieID *string) (*response.PaginatedResponse[response.ScreeningResponse], error)

	// CheckConflicts previews overlapping screenings for a proposed interval
	// without committing anything.
	CheckConflicts(ctx context.Context, screenID string, start, end time.Time) ([]response.ConflictResponse, error)
}

type scheduleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewScheduleService(repo *repository.Repository, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo: repo,
		log:  log.With(zap.String("service", "schedule")),
	}
}

// buildSeatInventory flattens a screen layout row-major into screening seat
// cells, keeping aisles as null seat numbers, and returns the bookable count.
func buildSeatInventory(cells []*entity.LayoutCell) ([]*entity.ScreeningSeat, int) {
	seats := make([]*entity.ScreeningSeat, len(cells))
	bookable := 0
	for i, cell := range cells {
		seat := &entity.ScreeningSeat{
			Position: i,
			Category: cell.Category,
		}
		if cell.SeatNumber != nil {
			number := *cell.SeatNumber
			seat.SeatNumber = &number
			bookable++
		}
		seats[i] = seat
	}
	return seats, bookable
}

func conflictRanges(overlapping []*entity.Screening) []TimeRange {
	ranges := make([]TimeRange, len(overlapping))
	for i, s := range overlapping {
		ranges[i] = TimeRange{
			ScreeningID: s.ID,
			Start:       s.StartTime,
			End:         s.EndTime,
		}
	}
	return ranges
}

func screeningToResponse(s *entity.Screening) response.ScreeningResponse {
	return response.ScreeningResponse{
		ID:         s.ID.String(),
		MovieID:    s.MovieID.String(),
		ScreenID:   s.ScreenID.String(),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		ShowType:   string(s.ShowType),
		Status:     string(s.Status),
		Pricing:    response.PricingRulesResponse(s.Pricing),
		TotalSeats: s.TotalSeats,
		CreatedAt:  s.CreatedAt,
	}
}

// validateScreeningInput covers the checks shared by create, bulk create and
// update: struct tags, ID formats, interval sanity and collaborator
// existence. It returns the parsed IDs on success.
func (s *scheduleService) validateScreeningInput(ctx context.Context, movieID, screenID string, start, end time.Time, req any) (uuid.UUID, uuid.UUID, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Screening validation failed", zap.Any("errors", errs))
		return uuid.Nil, uuid.Nil, &ValidationError{Message: "validation failed", Fields: errs}
	}

	movieUUID, err := uuid.Parse(movieID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid movie ID format %s: %w", movieID, err)
	}
	screenUUID, err := uuid.Parse(screenID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid screen ID format %s: %w", screenID, err)
	}

	if !end.After(start) {
		return uuid.Nil, uuid.Nil, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"end_time": "must be strictly after start_time"},
		}
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieUUID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("get movie %s: %w", movieID, err)
	}
	if movie == nil {
		return uuid.Nil, uuid.Nil, ErrMovieNotFound
	}

	screen, err := s.repo.Screen.FindByID(ctx, screenUUID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("get screen %s: %w", screenID, err)
	}
	if screen == nil {
		return uuid.Nil, uuid.Nil, ErrScreenNotFound
	}

	return movieUUID, screenUUID, nil
}

func (s *scheduleService) CreateScreening(ctx context.Context, req *request.CreateScreeningRequest) (*response.ScreeningResponse, error) {
	movieUUID, screenUUID, err := s.validateScreeningInput(ctx, req.MovieID, req.ScreenID, req.StartTime, req.EndTime, req)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.Screening.FindOverlapping(ctx, screenUUID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("check schedule conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, &ConflictError{ScreenID: screenUUID, Conflicts: conflictRanges(overlapping)}
	}

	layout, err := s.repo.Screen.FindLayout(ctx, screenUUID)
	if err != nil {
		return nil, fmt.Errorf("get screen layout: %w", err)
	}
	seats, bookable := buildSeatInventory(layout)
	if bookable == 0 {
		return nil, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"screen_id": "screen layout has no bookable seats"},
		}
	}

	now := time.Now()
	screening := &entity.Screening{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:   movieUUID,
		ScreenID:  screenUUID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		ShowType:  entity.ShowType(req.ShowType),
		Status:    entity.ScreeningStatusUpcoming,
		Pricing: entity.PricingRules{
			StandardBasePrice: req.Pricing.StandardBasePrice,
			PremiumBasePrice:  req.Pricing.PremiumBasePrice,
			Alpha:             req.Pricing.Alpha,
			Beta:              req.Pricing.Beta,
		},
		TotalSeats: bookable,
	}
	for i := range seats {
		seats[i].ScreeningID = screening.ID
	}

	if err := s.repo.Screening.Create(ctx, screening, seats); err != nil {
		s.log.Error("Failed to create screening",
			zap.Error(err),
			zap.String("movie_id", req.MovieID),
			zap.String("screen_id", req.ScreenID),
		)
		return nil, fmt.Errorf("create screening: %w", err)
	}

	s.log.Info("Screening created",
		zap.String("screening_id", screening.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.String("screen_id", req.ScreenID),
		zap.Time("start_time", req.StartTime),
		zap.Int("total_seats", bookable),
	)

	resp := screeningToResponse(screening)
	return &resp, nil
}

func (s *scheduleService) BulkCreateScreenings(ctx context.Context, req *request.BulkCreateScreeningsRequest) ([]*response.ScreeningResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: "validation failed", Fields: errs}
	}

	now := time.Now()
	screenings := make([]*entity.Screening, 0, len(req.Screenings))
	seatSets := make([][]*entity.ScreeningSeat, 0, len(req.Screenings))

	for i := range req.Screenings {
		entryReq := &req.Screenings[i]

		movieUUID, screenUUID, err := s.validateScreeningInput(ctx, entryReq.MovieID, entryReq.ScreenID, entryReq.StartTime, entryReq.EndTime, entryReq)
		if err != nil {
			return nil, fmt.Errorf("screening %d: %w", i, err)
		}

		overlapping, err := s.repo.Screening.FindOverlapping(ctx, screenUUID, entryReq.StartTime, entryReq.EndTime, nil)
		if err != nil {
			return nil, fmt.Errorf("screening %d: check schedule conflicts: %w", i, err)
		}

		conflicts := conflictRanges(overlapping)
		// Earlier batch entries are not persisted yet, so overlap against
		// them is checked in memory.
		for _, accepted := range screenings {
			if accepted.ScreenID == screenUUID &&
				accepted.StartTime.Before(entryReq.EndTime) && accepted.EndTime.After(entryReq.StartTime) {
				conflicts = append(conflicts, TimeRange{
					ScreeningID: accepted.ID,
					Start:       accepted.StartTime,
					End:         accepted.EndTime,
				})
			}
		}
		if len(conflicts) > 0 {
			return nil, fmt.Errorf("screening %d: %w", i, &ConflictError{ScreenID: screenUUID, Conflicts: conflicts})
		}

		layout, err := s.repo.Screen.FindLayout(ctx, screenUUID)
		if err != nil {
			return nil, fmt.Errorf("screening %d: get screen layout: %w", i, err)
		}
		seats, bookable := buildSeatInventory(layout)
		if bookable == 0 {
			return nil, fmt.Errorf("screening %d: %w", i, &ValidationError{
				Message: "validation failed",
				Fields:  map[string]string{"screen_id": "screen layout has no bookable seats"},
			})
		}

		screening := &entity.Screening{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			MovieID:   movieUUID,
			ScreenID:  screenUUID,
			StartTime: entryReq.StartTime,
			EndTime:   entryReq.EndTime,
			ShowType:  entity.ShowType(entryReq.ShowType),
			Status:    entity.ScreeningStatusUpcoming,
			Pricing: entity.PricingRules{
				StandardBasePrice: entryReq.Pricing.StandardBasePrice,
				PremiumBasePrice:  entryReq.Pricing.PremiumBasePrice,
				Alpha:             entryReq.Pricing.Alpha,
				Beta:              entryReq.Pricing.Beta,
			},
			TotalSeats: bookable,
		}
		for j := range seats {
			seats[j].ScreeningID = screening.ID
		}

		screenings = append(screenings, screening)
		seatSets = append(seatSets, seats)
	}

	if err := s.repo.Screening.CreateBatch(ctx, screenings, seatSets); err != nil {
		s.log.Error("Failed to bulk create screenings", zap.Error(err))
		return nil, fmt.Errorf("bulk create screenings: %w", err)
	}

	s.log.Info("Screenings bulk created", zap.Int("count", len(screenings)))

	responses := make([]*response.ScreeningResponse, len(screenings))
	for i, screening := range screenings {
		resp := screeningToResponse(screening)
		responses[i] = &resp
	}
	return responses, nil
}

func (s *scheduleService) UpdateScreening(ctx context.Context, screeningID string, req *request.UpdateScreeningRequest) (*response.ScreeningUpdateResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, fmt.Errorf("invalid screening ID format %s: %w", screeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	movieUUID, screenUUID, err := s.validateScreeningInput(ctx, req.MovieID, req.ScreenID, req.StartTime, req.EndTime, req)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.Screening.FindOverlapping(ctx, screenUUID, req.StartTime, req.EndTime, &id)
	if err != nil {
		return nil, fmt.Errorf("check schedule conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, &ConflictError{ScreenID: screenUUID, Conflicts: conflictRanges(overlapping)}
	}

	preserved := 0
	totalSeats := screening.TotalSeats

	if screenUUID != screening.ScreenID {
		// Re-derive the inventory from the new screen's layout, carrying
		// booked state over by seat number. Seats absent from the new layout
		// drop their booking silently.
		oldSeats, err := s.repo.ScreeningSeat.FindByScreeningID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get current seat inventory: %w", err)
		}
		bookedNumbers := make(map[string]bool)
		for _, seat := range oldSeats {
			if seat.IsBooked && seat.SeatNumber != nil {
				bookedNumbers[*seat.SeatNumber] = true
			}
		}

		layout, err := s.repo.Screen.FindLayout(ctx, screenUUID)
		if err != nil {
			return nil, fmt.Errorf("get screen layout: %w", err)
		}
		seats, bookable := buildSeatInventory(layout)
		if bookable == 0 {
			return nil, &ValidationError{
				Message: "validation failed",
				Fields:  map[string]string{"screen_id": "screen layout has no bookable seats"},
			}
		}
		for _, seat := range seats {
			seat.ScreeningID = id
			if seat.SeatNumber != nil && bookedNumbers[*seat.SeatNumber] {
				seat.IsBooked = true
				preserved++
			}
		}

		if err := s.repo.ScreeningSeat.ReplaceForScreening(ctx, id, seats); err != nil {
			return nil, fmt.Errorf("replace seat inventory: %w", err)
		}
		totalSeats = bookable

		s.log.Info("Seat inventory re-derived for new screen",
			zap.String("screening_id", screeningID),
			zap.String("screen_id", req.ScreenID),
			zap.Int("preserved_booked_seats", preserved),
			zap.Int("dropped_booked_seats", len(bookedNumbers)-preserved),
		)
	} else {
		currentSold, err := s.repo.ScreeningSeat.CountBooked(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("count booked seats: %w", err)
		}
		preserved = currentSold
	}

	screening.MovieID = movieUUID
	screening.ScreenID = screenUUID
	screening.StartTime = req.StartTime
	screening.EndTime = req.EndTime
	screening.ShowType = entity.ShowType(req.ShowType)
	// A moved interval may change where the screening sits in its lifecycle;
	// re-derive instead of trusting the stored status.
	screening.Status = StatusAt(req.StartTime, req.EndTime, time.Now())
	screening.Pricing = entity.PricingRules{
		StandardBasePrice: req.Pricing.StandardBasePrice,
		PremiumBasePrice:  req.Pricing.PremiumBasePrice,
		Alpha:             req.Pricing.Alpha,
		Beta:              req.Pricing.Beta,
	}
	screening.TotalSeats = totalSeats
	screening.UpdatedAt = time.Now()

	if err := s.repo.Screening.Update(ctx, screening); err != nil {
		s.log.Error("Failed to update screening",
			zap.Error(err),
			zap.String("screening_id", screeningID),
		)
		return nil, fmt.Errorf("update screening %s: %w", screeningID, err)
	}

	s.log.Info("Screening updated", zap.String("screening_id", screeningID))

	return &response.ScreeningUpdateResponse{
		ScreeningResponse:    screeningToResponse(screening),
		PreservedBookedSeats: preserved,
	}, nil
}

func (s *scheduleService) DeleteScreening(ctx context.Context, screeningID string) error {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return fmt.Errorf("invalid screening ID format %s: %w", screeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return ErrScreeningNotFound
	}

	if err := s.repo.Screening.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete screening",
			zap.Error(err),
			zap.String("screening_id", screeningID),
		)
		return fmt.Errorf("delete screening %s: %w", screeningID, err)
	}

	return nil
}

func (s *scheduleService) GetScreeningByID(ctx context.Context, screeningID string) (*response.ScreeningDetailResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, fmt.Errorf("invalid screening ID format %s: %w", screeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	sold, err := s.repo.ScreeningSeat.CountBooked(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count booked seats: %w", err)
	}

	fill := 0.0
	if screening.TotalSeats > 0 {
		fill = float64(sold) / float64(screening.TotalSeats)
	}

	resp := screeningToResponse(screening)
	if movie, _ := s.repo.Movie.FindByID(ctx, screening.MovieID); movie != nil {
		resp.MovieTitle = movie.Title
	}
	if screen, _ := s.repo.Screen.FindByID(ctx, screening.ScreenID); screen != nil {
		resp.ScreenName = screen.Name
	}

	hoursToStart := time.Until(screening.StartTime).Hours()

	return &response.ScreeningDetailResponse{
		ScreeningResponse: resp,
		SoldSeats:         sold,
		FillRate:          fill,
		CurrentPrices: response.PriceQuoteResponse{
			Standard: computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryStandard, sold, screening.TotalSeats, hoursToStart),
			Premium:  computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryPremium, sold, screening.TotalSeats, hoursToStart),
		},
	}, nil
}

func (s *scheduleService) GetScreenings(ctx context.Context, req *request.PaginatedRequest, status, movieID *string) (*response.PaginatedResponse[response.ScreeningResponse], error) {
	var statusFilter *entity.ScreeningStatus
	if status != nil {
		st := entity.ScreeningStatus(*status)
		switch st {
		case entity.ScreeningStatusUpcoming, entity.ScreeningStatusLive, entity.ScreeningStatusCompleted:
		default:
			return nil, &ValidationError{
				Message: "validation failed",
				Fields:  map[string]string{"status": "Must be one of: upcoming, live, completed"},
			}
		}
		statusFilter = &st
	}

	var movieFilter *uuid.UUID
	if movieID != nil {
		movieUUID, err := uuid.Parse(*movieID)
		if err != nil {
			return nil, fmt.Errorf("invalid movie ID format %s: %w", *movieID, err)
		}
		movieFilter = &movieUUID
	}

	screenings, err := s.repo.Screening.FindAll(ctx, statusFilter, movieFilter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get screenings: %w", err)
	}

	total, err := s.repo.Screening.Count(ctx, statusFilter, movieFilter)
	if err != nil {
		return nil, fmt.Errorf("count screenings: %w", err)
	}

	responses := make([]response.ScreeningResponse, len(screenings))
	for i, screening := range screenings {
		responses[i] = screeningToResponse(screening)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *scheduleService) CheckConflicts(ctx context.Context, screenID string, start, end time.Time) ([]response.ConflictResponse, error) {
	screenUUID, err := uuid.Parse(screenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID format %s: %w", screenID, err)
	}

	if !end.After(start) {
		return nil, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"end": "must be strictly after start"},
		}
	}

	screen, err := s.repo.Screen.FindByID(ctx, screenUUID)
	if err != nil {
		return nil, fmt.Errorf("get screen %s: %w", screenID, err)
	}
	if screen == nil {
		return nil, ErrScreenNotFound
	}

	overlapping, err := s.repo.Screening.FindOverlapping(ctx, screenUUID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("check schedule conflicts: %w", err)
	}

	conflicts := make([]response.ConflictResponse, len(overlapping))
	for i, screening := range overlapping {
		conflicts[i] = response.ConflictResponse{
			ScreeningID: screening.ID.String(),
			StartTime:   screening.StartTime,
			EndTime:     screening.EndTime,
		}
	}

	return conflicts, nil
}
