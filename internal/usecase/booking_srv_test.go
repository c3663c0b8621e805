package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/dto/request"
	"showtime-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{CutoffMinutes: 15},
	}
}

// seedUpcomingScreening stores a screening starting in startIn with standard
// seats A1..A4 and returns its ID.
func seedUpcomingScreening(m *mocks, startIn time.Duration) uuid.UUID {
	id := uuid.New()
	now := time.Now()
	m.screening.screenings[id] = &entity.Screening{
		Base:      entity.Base{ID: id},
		MovieID:   uuid.New(),
		ScreenID:  uuid.New(),
		StartTime: now.Add(startIn),
		EndTime:   now.Add(startIn + 2*time.Hour),
		ShowType:  entity.ShowTypeRegular,
		Status:    entity.ScreeningStatusUpcoming,
		Pricing: entity.PricingRules{
			StandardBasePrice: 200,
			PremiumBasePrice:  300,
			Alpha:             0.1,
			Beta:              0.05,
		},
		TotalSeats: 4,
	}

	numbers := []string{"A1", "A2", "A3", "A4"}
	seats := make([]*entity.ScreeningSeat, 0, len(numbers)+1)
	for i, number := range numbers {
		n := number
		seats = append(seats, &entity.ScreeningSeat{
			ScreeningID: id,
			Position:    i,
			SeatNumber:  &n,
			Category:    entity.SeatCategoryStandard,
		})
	}
	seats = append(seats, &entity.ScreeningSeat{ScreeningID: id, Position: len(numbers)}) // aisle
	m.seat.inventories[id] = seats
	return id
}

func bookingReq(userID, screeningID uuid.UUID, seats ...string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		UserID:      userID.String(),
		ScreeningID: screeningID.String(),
		SeatNumbers: seats,
	}
}

func TestCreateBooking(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	booking, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A2"))
	require.NoError(t, err)

	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, 2, booking.TotalSeats)
	assert.NotEmpty(t, booking.OrderID)
	// empty screening 48h out: 2 * round(200 + 0 + 0.05*0.4*200) = 408
	assert.Equal(t, 408.0, booking.TotalPrice)

	// Seats are only held on confirm.
	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 0, sold)
}

func TestCreateBookingReportsEveryProblemSeat(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.SeatNumber != nil && *seat.SeatNumber == "A3" {
			seat.IsBooked = true
		}
	}

	userID := uuid.New()
	var seatErr *SeatUnavailableError
	_, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A3", "Z9"))
	require.ErrorAs(t, err, &seatErr)

	assert.Equal(t, []string{"A3"}, seatErr.AlreadyBooked)
	assert.Equal(t, []string{"Z9"}, seatErr.NotBookable)
}

func TestCreateBookingRejectsDuplicateSeats(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	// Listing one physical seat twice must fail validation, not double-charge.
	var valErr *ValidationError
	_, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A2", "A2"))
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "SeatNumbers")

	assert.Empty(t, m.booking.bookings)
}

func TestCreateBookingClosedWindow(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())
	userID := uuid.New()

	// Inside the 15-minute cutoff.
	closeID := seedUpcomingScreening(m, 10*time.Minute)
	_, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, closeID, "A1"))
	require.ErrorIs(t, err, ErrBookingClosed)

	// Already started.
	liveID := seedUpcomingScreening(m, -time.Hour)
	_, err = svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, liveID, "A1"))
	require.ErrorIs(t, err, ErrBookingClosed)
}

func TestConfirmBooking(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	created, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A2"))
	require.NoError(t, err)

	confirmed, err := svc.ConfirmBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)

	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 2, sold)

	// Every confirmation appends a snapshot with the running revenue.
	history := m.history.snapshots[screeningID]
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].SoldSeats)
	assert.Equal(t, 408.0, history[0].CumulativeRevenue)

	// Confirming twice is rejected.
	_, err = svc.ConfirmBooking(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrBookingNotPending)
}

func TestConfirmBookingLosesRaceForSeat(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	alice := uuid.New()
	bob := uuid.New()

	first, err := svc.CreateBooking(context.Background(), alice.String(), bookingReq(alice, screeningID, "A1"))
	require.NoError(t, err)
	second, err := svc.CreateBooking(context.Background(), bob.String(), bookingReq(bob, screeningID, "A1"))
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(context.Background(), first.ID)
	require.NoError(t, err)

	var seatErr *SeatUnavailableError
	_, err = svc.ConfirmBooking(context.Background(), second.ID)
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, []string{"A1"}, seatErr.AlreadyBooked)

	// The loser stays pending; only the winner holds the seat.
	loser, err := svc.GetBookingByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", loser.Status)

	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 1, sold)
}

func TestConfirmBookingFreesSeatsWhenStatusWriteFails(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	created, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A2"))
	require.NoError(t, err)

	m.booking.statusErr = errors.New("connection reset by peer")
	_, err = svc.ConfirmBooking(context.Background(), created.ID)
	require.Error(t, err)

	// The booking stays pending and its seats are rolled back, not stranded.
	pending, err := svc.GetBookingByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status)
	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 0, sold)

	// A retry confirms cleanly once the write goes through.
	m.booking.statusErr = nil
	confirmed, err := svc.ConfirmBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	sold, _ = m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 2, sold)
}

func TestCancelBooking(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	created, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A2"))
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(context.Background(), created.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 0, sold)

	// No way out of cancelled.
	_, err = svc.CancelBooking(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrBookingCancelled)
	_, err = svc.ConfirmBooking(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrBookingNotPending)
}

func TestCancelPendingBookingTouchesNoSeats(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	created, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1"))
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	sold, _ := m.seat.CountBooked(context.Background(), screeningID)
	assert.Equal(t, 0, sold)
}

func TestCalculateTotalPrice(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	userID := uuid.New()

	created, err := svc.CreateBooking(context.Background(), userID.String(), bookingReq(userID, screeningID, "A1", "A2"))
	require.NoError(t, err)

	// Same occupancy and urgency bucket: the re-derived total matches.
	price, err := svc.CalculateTotalPrice(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TotalPrice, price.TotalPrice)

	_, err = svc.CalculateTotalPrice(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetAvailableSeats(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.SeatNumber != nil && *seat.SeatNumber == "A3" {
			seat.IsBooked = true
		}
	}

	seatMap, err := svc.GetAvailableSeats(context.Background(), screeningID.String())
	require.NoError(t, err)

	// All five cells come back, aisle included.
	assert.Len(t, seatMap.Cells, 5)
	assert.Equal(t, []string{"A1", "A2", "A4"}, seatMap.AvailableSeats)
}

func TestGetOccupancy(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.SeatNumber != nil && *seat.SeatNumber == "A1" {
			seat.IsBooked = true
		}
	}

	occupancy, err := svc.GetOccupancy(context.Background(), screeningID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy.SoldSeats)
	assert.Equal(t, 4, occupancy.TotalSeats)
	assert.Equal(t, 0.25, occupancy.FillRate)
}

func TestGetUserBookings(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewBookingService(repo, testConfig(), zap.NewNop())

	screeningID := seedUpcomingScreening(m, 48*time.Hour)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.CreateBooking(context.Background(), alice.String(), bookingReq(alice, screeningID, "A1"))
	require.NoError(t, err)
	_, err = svc.CreateBooking(context.Background(), bob.String(), bookingReq(bob, screeningID, "A2"))
	require.NoError(t, err)

	page, err := svc.GetUserBookings(context.Background(), alice.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, alice.String(), page.Data[0].UserID)
	assert.Equal(t, int64(1), page.Pagination.Total)
}
