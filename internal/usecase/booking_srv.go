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

type BookingService interface {
	// CreateBooking reserves nothing yet: it validates the seat set against
	// the live inventory, derives the total price and stores the booking as
	// pending. Seats are only marked booked on confirm.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// ConfirmBooking marks all of the booking's seats booked in one atomic
	// conditional write, appends a pricing-history snapshot and moves the
	// booking to confirmed. If any seat is unavailable, none are booked and
	// every problem seat is reported.
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// CancelBooking frees the booking's seats best-effort and moves it to
	// cancelled. There is no transition out of cancelled.
	CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// CalculateTotalPrice re-derives the booking total from current
	// screening state; it is idempotent and never hand-edited.
	CalculateTotalPrice(ctx context.Context, bookingID string) (*response.TotalPriceResponse, error)

	GetAvailableSeats(ctx context.Context, screeningID string) (*response.SeatMapResponse, error)
	GetOccupancy(ctx context.Context, screeningID string) (*response.OccupancyResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	cutoff time.Duration
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		cutoff: time.Duration(config.Booking.CutoffMinutes) * time.Minute,
		log:    log.With(zap.String("service", "booking")),
	}
}

// bookingOpen applies the booking window rule: sales close at the cutoff
// before start time, and a screening that is live or completed (by stored
// status or by the clock) never sells.
func (s *bookingService) bookingOpen(screening *entity.Screening, now time.Time) bool {
	if screening.Status != entity.ScreeningStatusUpcoming {
		return false
	}
	if StatusAt(screening.StartTime, screening.EndTime, now) != entity.ScreeningStatusUpcoming {
		return false
	}
	return now.Before(screening.StartTime.Add(-s.cutoff))
}

// seatCategories indexes a screening's live seats by seat number.
func seatCategories(seats []*entity.ScreeningSeat) map[string]entity.SeatCategory {
	categories := make(map[string]entity.SeatCategory)
	for _, seat := range seats {
		if seat.SeatNumber != nil {
			categories[*seat.SeatNumber] = seat.Category
		}
	}
	return categories
}

func countBookedSeats(seats []*entity.ScreeningSeat) int {
	sold := 0
	for _, seat := range seats {
		if seat.SeatNumber != nil && seat.IsBooked {
			sold++
		}
	}
	return sold
}

// totalPriceFor sums the per-category computed price over the seat set.
func totalPriceFor(screening *entity.Screening, categories map[string]entity.SeatCategory, seatNumbers []string, soldSeats int, now time.Time) (float64, error) {
	hoursToStart := screening.StartTime.Sub(now).Hours()

	total := 0.0
	for _, seatNumber := range seatNumbers {
		category, ok := categories[seatNumber]
		if !ok {
			return 0, &SeatNotFoundError{SeatNumber: seatNumber}
		}
		total += computePrice(screening.Pricing, screening.ShowType, category, soldSeats, screening.TotalSeats, hoursToStart)
	}

	return total, nil
}

func bookingToResponse(b *entity.Booking) *response.BookingResponse {
	return &response.BookingResponse{
		ID:          b.ID.String(),
		OrderID:     b.OrderID,
		UserID:      b.UserID.String(),
		ScreeningID: b.ScreeningID.String(),
		SeatNumbers: b.SeatNumbers,
		TotalSeats:  b.TotalSeats,
		TotalPrice:  b.TotalPrice,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Message: "validation failed", Fields: errs}
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	screeningID, err := uuid.Parse(req.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("invalid screening ID format %s: %w", req.ScreeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", req.ScreeningID, err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	now := time.Now()
	if !s.bookingOpen(screening, now) {
		return nil, ErrBookingClosed
	}

	seats, err := s.repo.ScreeningSeat.FindByScreeningID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("get seat inventory: %w", err)
	}
	categories := seatCategories(seats)

	// Validate the whole batch up front so the caller sees every problem
	// seat, not just the first.
	booked := make(map[string]bool)
	for _, seat := range seats {
		if seat.SeatNumber != nil && seat.IsBooked {
			booked[*seat.SeatNumber] = true
		}
	}
	failure := &SeatUnavailableError{}
	for _, seatNumber := range req.SeatNumbers {
		if _, ok := categories[seatNumber]; !ok {
			failure.NotBookable = append(failure.NotBookable, seatNumber)
		} else if booked[seatNumber] {
			failure.AlreadyBooked = append(failure.AlreadyBooked, seatNumber)
		}
	}
	if len(failure.AlreadyBooked) > 0 || len(failure.NotBookable) > 0 {
		return nil, failure
	}

	soldSeats := countBookedSeats(seats)
	totalPrice, err := totalPriceFor(screening, categories, req.SeatNumbers, soldSeats, now)
	if err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:     utils.GenerateOrderID(),
		UserID:      userUUID,
		ScreeningID: screeningID,
		SeatNumbers: req.SeatNumbers,
		TotalSeats:  len(req.SeatNumbers),
		TotalPrice:  totalPrice,
		Status:      entity.BookingStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("screening_id", req.ScreeningID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID),
		zap.Int("seat_count", booking.TotalSeats),
		zap.Float64("total_price", totalPrice),
	)

	return bookingToResponse(booking), nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	screening, err := s.repo.Screening.FindByID(ctx, booking.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", booking.ScreeningID.String(), err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	now := time.Now()
	if !s.bookingOpen(screening, now) {
		return nil, ErrBookingClosed
	}

	// The total is re-derived at confirm time: occupancy and urgency may
	// have moved since the booking was created.
	seats, err := s.repo.ScreeningSeat.FindByScreeningID(ctx, booking.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("get seat inventory: %w", err)
	}
	total, err := totalPriceFor(screening, seatCategories(seats), booking.SeatNumbers, countBookedSeats(seats), now)
	if err != nil {
		return nil, err
	}
	if total != booking.TotalPrice {
		if err := s.repo.Booking.UpdateTotalPrice(ctx, id, total); err != nil {
			return nil, fmt.Errorf("update booking total price: %w", err)
		}
		booking.TotalPrice = total
	}

	// Atomic conditional write: either every seat flips free->booked or the
	// whole batch is rejected. The booking stays pending on failure.
	failure, err := s.repo.ScreeningSeat.BookSeats(ctx, booking.ScreeningID, booking.SeatNumbers)
	if err != nil {
		return nil, fmt.Errorf("book seats: %w", err)
	}
	if failure != nil {
		return nil, &SeatUnavailableError{
			AlreadyBooked: failure.AlreadyBooked,
			NotBookable:   failure.NotBookable,
		}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusConfirmed); err != nil {
		// The seats were just flipped by this booking, so freeing them is
		// safe. Without this, a failed status write would strand booked
		// seats on a pending booking that cancel never frees.
		if _, freeErr := s.repo.ScreeningSeat.FreeSeats(ctx, booking.ScreeningID, booking.SeatNumbers); freeErr != nil {
			s.log.Error("Failed to free seats after status write failure",
				zap.Error(freeErr),
				zap.String("booking_id", bookingID),
				zap.Strings("seats", booking.SeatNumbers),
			)
		}
		return nil, fmt.Errorf("confirm booking %s: %w", bookingID, err)
	}
	booking.Status = entity.BookingStatusConfirmed

	if err := s.appendPricingSnapshot(ctx, screening, booking, now); err != nil {
		// The seats are booked and the booking confirmed; a missing audit
		// row must not fail the customer's confirmation.
		s.log.Error("Failed to append pricing snapshot",
			zap.Error(err),
			zap.String("screening_id", booking.ScreeningID.String()),
		)
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
		zap.Strings("seats", booking.SeatNumbers),
	)

	return bookingToResponse(booking), nil
}

func (s *bookingService) appendPricingSnapshot(ctx context.Context, screening *entity.Screening, booking *entity.Booking, now time.Time) error {
	sold, err := s.repo.ScreeningSeat.CountBooked(ctx, screening.ID)
	if err != nil {
		return fmt.Errorf("count booked seats: %w", err)
	}

	cumulative := booking.TotalPrice
	if latest, err := s.repo.PricingHistory.FindLatest(ctx, screening.ID); err != nil {
		return fmt.Errorf("get latest pricing snapshot: %w", err)
	} else if latest != nil {
		cumulative += latest.CumulativeRevenue
	}

	hoursToStart := screening.StartTime.Sub(now).Hours()
	snapshot := &entity.PricingSnapshot{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ScreeningID:       screening.ID,
		SoldSeats:         sold,
		StandardPrice:     computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryStandard, sold, screening.TotalSeats, hoursToStart),
		PremiumPrice:      computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryPremium, sold, screening.TotalSeats, hoursToStart),
		CumulativeRevenue: cumulative,
	}

	return s.repo.PricingHistory.Create(ctx, snapshot)
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	// Only confirmed bookings hold seats; a pending booking has nothing to
	// free. Freeing is best-effort: unknown numbers and aisles are no-ops.
	if booking.Status == entity.BookingStatusConfirmed {
		freed, err := s.repo.ScreeningSeat.FreeSeats(ctx, booking.ScreeningID, booking.SeatNumbers)
		if err != nil {
			return nil, fmt.Errorf("free seats: %w", err)
		}
		s.log.Info("Seats freed",
			zap.String("booking_id", bookingID),
			zap.Int64("freed", freed),
		)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	booking.Status = entity.BookingStatusCancelled

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
	)

	return bookingToResponse(booking), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return bookingToResponse(booking), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = *bookingToResponse(booking)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) CalculateTotalPrice(ctx context.Context, bookingID string) (*response.TotalPriceResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	screening, err := s.repo.Screening.FindByID(ctx, booking.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", booking.ScreeningID.String(), err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	seats, err := s.repo.ScreeningSeat.FindByScreeningID(ctx, booking.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("get seat inventory: %w", err)
	}

	total, err := totalPriceFor(screening, seatCategories(seats), booking.SeatNumbers, countBookedSeats(seats), time.Now())
	if err != nil {
		return nil, err
	}

	if total != booking.TotalPrice {
		if err := s.repo.Booking.UpdateTotalPrice(ctx, id, total); err != nil {
			return nil, fmt.Errorf("update booking total price: %w", err)
		}
	}

	return &response.TotalPriceResponse{
		BookingID:  bookingID,
		TotalPrice: total,
	}, nil
}

func (s *bookingService) GetAvailableSeats(ctx context.Context, screeningID string) (*response.SeatMapResponse, error) {
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

	seats, err := s.repo.ScreeningSeat.FindByScreeningID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get seat inventory: %w", err)
	}

	cells := make([]response.SeatCellResponse, len(seats))
	var available []string
	for i, seat := range seats {
		cell := response.SeatCellResponse{
			Position: seat.Position,
			IsBooked: seat.IsBooked,
		}
		if seat.SeatNumber != nil {
			cell.SeatNumber = seat.SeatNumber
			cell.Category = string(seat.Category)
			if !seat.IsBooked {
				available = append(available, *seat.SeatNumber)
			}
		}
		cells[i] = cell
	}

	return &response.SeatMapResponse{
		ScreeningID:    screeningID,
		Cells:          cells,
		AvailableSeats: available,
	}, nil
}

func (s *bookingService) GetOccupancy(ctx context.Context, screeningID string) (*response.OccupancyResponse, error) {
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

	return &response.OccupancyResponse{
		ScreeningID: screeningID,
		SoldSeats:   sold,
		TotalSeats:  screening.TotalSeats,
		FillRate:    fill,
	}, nil
}
