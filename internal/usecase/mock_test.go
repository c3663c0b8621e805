package usecase

import (
	"context"
	"sort"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. They keep the repository contracts (nil for
// missing rows, all-or-nothing seat booking) so the services under test see
// the same behavior as against Postgres.

type mockMovieRepo struct {
	movies map[uuid.UUID]*entity.Movie
}

func (m *mockMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	return m.movies[id], nil
}

func (m *mockMovieRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Movie, error) {
	var all []*entity.Movie
	for _, movie := range m.movies {
		all = append(all, movie)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ReleaseDate.After(all[j].ReleaseDate) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockMovieRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.movies)), nil
}

type mockScreenRepo struct {
	screens map[uuid.UUID]*entity.Screen
	layouts map[uuid.UUID][]*entity.LayoutCell
}

func (m *mockScreenRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Screen, error) {
	return m.screens[id], nil
}

func (m *mockScreenRepo) FindLayout(_ context.Context, screenID uuid.UUID) ([]*entity.LayoutCell, error) {
	return m.layouts[screenID], nil
}

type mockScreeningRepo struct {
	screenings map[uuid.UUID]*entity.Screening
	seats      *mockSeatRepo

	// Canned AverageFactorsByGenre result.
	avgAlpha float64
	avgBeta  float64
	avgCount int64
}

func (m *mockScreeningRepo) Create(_ context.Context, screening *entity.Screening, seats []*entity.ScreeningSeat) error {
	m.screenings[screening.ID] = screening
	m.seats.inventories[screening.ID] = seats
	return nil
}

func (m *mockScreeningRepo) CreateBatch(_ context.Context, screenings []*entity.Screening, seatSets [][]*entity.ScreeningSeat) error {
	for i, screening := range screenings {
		m.screenings[screening.ID] = screening
		m.seats.inventories[screening.ID] = seatSets[i]
	}
	return nil
}

func (m *mockScreeningRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Screening, error) {
	return m.screenings[id], nil
}

func (m *mockScreeningRepo) FindAll(_ context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID, limit, offset int) ([]*entity.Screening, error) {
	var all []*entity.Screening
	for _, s := range m.screenings {
		if status != nil && s.Status != *status {
			continue
		}
		if movieID != nil && s.MovieID != *movieID {
			continue
		}
		all = append(all, s)
	}
	// Map iteration order is random; match the SQL ORDER BY start_time so
	// pagination over the fake is deterministic.
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.Before(all[j].StartTime) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockScreeningRepo) Count(_ context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID) (int64, error) {
	all, _ := m.FindAll(context.Background(), status, movieID, len(m.screenings)+1, 0)
	return int64(len(all)), nil
}

func (m *mockScreeningRepo) FindOverlapping(_ context.Context, screenID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error) {
	var overlapping []*entity.Screening
	for _, s := range m.screenings {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.ScreenID == screenID && s.StartTime.Before(end) && s.EndTime.After(start) {
			overlapping = append(overlapping, s)
		}
	}
	return overlapping, nil
}

func (m *mockScreeningRepo) Update(_ context.Context, screening *entity.Screening) error {
	m.screenings[screening.ID] = screening
	return nil
}

func (m *mockScreeningRepo) UpdateFactors(_ context.Context, id uuid.UUID, alpha, beta float64) error {
	s := m.screenings[id]
	s.Pricing.Alpha = alpha
	s.Pricing.Beta = beta
	return nil
}

func (m *mockScreeningRepo) SweepStatuses(_ context.Context, now time.Time) (*repository.SweepResult, error) {
	result := &repository.SweepResult{}
	for _, s := range m.screenings {
		want := StatusAt(s.StartTime, s.EndTime, now)
		if s.Status == want {
			continue
		}
		s.Status = want
		switch want {
		case entity.ScreeningStatusUpcoming:
			result.Upcoming++
		case entity.ScreeningStatusLive:
			result.Live++
		case entity.ScreeningStatusCompleted:
			result.Completed++
		}
	}
	return result, nil
}

func (m *mockScreeningRepo) AverageFactorsByGenre(_ context.Context, _ string) (float64, float64, int64, error) {
	return m.avgAlpha, m.avgBeta, m.avgCount, nil
}

func (m *mockScreeningRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.screenings, id)
	return nil
}

type mockSeatRepo struct {
	inventories map[uuid.UUID][]*entity.ScreeningSeat
}

func (m *mockSeatRepo) FindByScreeningID(_ context.Context, screeningID uuid.UUID) ([]*entity.ScreeningSeat, error) {
	return m.inventories[screeningID], nil
}

func (m *mockSeatRepo) CountBooked(_ context.Context, screeningID uuid.UUID) (int, error) {
	sold := 0
	for _, seat := range m.inventories[screeningID] {
		if seat.SeatNumber != nil && seat.IsBooked {
			sold++
		}
	}
	return sold, nil
}

func (m *mockSeatRepo) BookSeats(_ context.Context, screeningID uuid.UUID, seatNumbers []string) (*repository.SeatBookingFailure, error) {
	seats := m.inventories[screeningID]
	byNumber := make(map[string]*entity.ScreeningSeat)
	for _, seat := range seats {
		if seat.SeatNumber != nil {
			byNumber[*seat.SeatNumber] = seat
		}
	}

	failure := &repository.SeatBookingFailure{}
	for _, number := range seatNumbers {
		seat, ok := byNumber[number]
		if !ok {
			failure.NotBookable = append(failure.NotBookable, number)
		} else if seat.IsBooked {
			failure.AlreadyBooked = append(failure.AlreadyBooked, number)
		}
	}
	if len(failure.AlreadyBooked) > 0 || len(failure.NotBookable) > 0 {
		return failure, nil
	}

	for _, number := range seatNumbers {
		byNumber[number].IsBooked = true
	}
	return nil, nil
}

func (m *mockSeatRepo) FreeSeats(_ context.Context, screeningID uuid.UUID, seatNumbers []string) (int64, error) {
	freed := int64(0)
	for _, seat := range m.inventories[screeningID] {
		if seat.SeatNumber == nil || !seat.IsBooked {
			continue
		}
		for _, number := range seatNumbers {
			if *seat.SeatNumber == number {
				seat.IsBooked = false
				freed++
				break
			}
		}
	}
	return freed, nil
}

func (m *mockSeatRepo) ReplaceForScreening(_ context.Context, screeningID uuid.UUID, seats []*entity.ScreeningSeat) error {
	m.inventories[screeningID] = seats
	return nil
}

type mockPricingHistoryRepo struct {
	snapshots map[uuid.UUID][]*entity.PricingSnapshot
}

func (m *mockPricingHistoryRepo) Create(_ context.Context, snapshot *entity.PricingSnapshot) error {
	m.snapshots[snapshot.ScreeningID] = append(m.snapshots[snapshot.ScreeningID], snapshot)
	return nil
}

func (m *mockPricingHistoryRepo) FindByScreeningID(_ context.Context, screeningID uuid.UUID) ([]*entity.PricingSnapshot, error) {
	return m.snapshots[screeningID], nil
}

func (m *mockPricingHistoryRepo) FindLatest(_ context.Context, screeningID uuid.UUID) (*entity.PricingSnapshot, error) {
	history := m.snapshots[screeningID]
	if len(history) == 0 {
		return nil, nil
	}
	return history[len(history)-1], nil
}

type mockBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking

	// When set, UpdateStatus fails with this error instead of writing.
	statusErr error
}

func (m *mockBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	m.bookings[booking.ID] = booking
	return nil
}

func (m *mockBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return m.bookings[id], nil
}

func (m *mockBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var all []*entity.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	count := int64(0)
	for _, b := range m.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.bookings[id].Status = status
	return nil
}

func (m *mockBookingRepo) UpdateTotalPrice(_ context.Context, id uuid.UUID, totalPrice float64) error {
	m.bookings[id].TotalPrice = totalPrice
	return nil
}

type mocks struct {
	movie     *mockMovieRepo
	screen    *mockScreenRepo
	screening *mockScreeningRepo
	seat      *mockSeatRepo
	history   *mockPricingHistoryRepo
	booking   *mockBookingRepo
}

func newMockRepository() (*repository.Repository, *mocks) {
	seat := &mockSeatRepo{inventories: make(map[uuid.UUID][]*entity.ScreeningSeat)}
	m := &mocks{
		movie:     &mockMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)},
		screen:    &mockScreenRepo{screens: make(map[uuid.UUID]*entity.Screen), layouts: make(map[uuid.UUID][]*entity.LayoutCell)},
		screening: &mockScreeningRepo{screenings: make(map[uuid.UUID]*entity.Screening), seats: seat},
		seat:      seat,
		history:   &mockPricingHistoryRepo{snapshots: make(map[uuid.UUID][]*entity.PricingSnapshot)},
		booking:   &mockBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)},
	}
	repo := &repository.Repository{
		Movie:          m.movie,
		Screen:         m.screen,
		Screening:      m.screening,
		ScreeningSeat:  m.seat,
		PricingHistory: m.history,
		Booking:        m.booking,
	}
	return repo, m
}

func seatNumber(s string) *string {
	return &s
}

// layoutWithSeats builds a single-row layout of standard seats with one
// aisle cell in the middle.
func layoutWithSeats(screenID uuid.UUID, numbers ...string) []*entity.LayoutCell {
	cells := make([]*entity.LayoutCell, 0, len(numbers)+1)
	for i, number := range numbers {
		if i == len(numbers)/2 {
			cells = append(cells, &entity.LayoutCell{ScreenID: screenID, RowIndex: 0, ColIndex: i})
		}
		cells = append(cells, &entity.LayoutCell{
			ScreenID:   screenID,
			RowIndex:   0,
			ColIndex:   i,
			SeatNumber: seatNumber(number),
			Category:   entity.SeatCategoryStandard,
		})
	}
	return cells
}
