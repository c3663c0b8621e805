package usecase

import (
	"context"
	"testing"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedScreen(m *mocks, numbers ...string) uuid.UUID {
	id := uuid.New()
	m.screen.screens[id] = &entity.Screen{
		Base:     entity.Base{ID: id},
		Name:     "Screen 1",
		RowCount: 1,
		ColCount: len(numbers) + 1,
	}
	m.screen.layouts[id] = layoutWithSeats(id, numbers...)
	return id
}

func validPricing() request.PricingRulesRequest {
	return request.PricingRulesRequest{
		StandardBasePrice: 200,
		PremiumBasePrice:  300,
		Alpha:             0.1,
		Beta:              0.05,
	}
}

func createReq(movieID, screenID uuid.UUID, start, end time.Time) *request.CreateScreeningRequest {
	return &request.CreateScreeningRequest{
		MovieID:   movieID.String(),
		ScreenID:  screenID.String(),
		StartTime: start,
		EndTime:   end,
		ShowType:  "regular",
		Pricing:   validPricing(),
	}
}

func TestCreateScreening(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2", "A3", "A4")

	start := time.Now().Add(48 * time.Hour)
	resp, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, "upcoming", resp.Status)
	assert.Equal(t, 4, resp.TotalSeats)

	// The inventory snapshot keeps the aisle cell.
	screeningID := uuid.MustParse(resp.ID)
	seats := m.seat.inventories[screeningID]
	require.Len(t, seats, 5)
	aisles := 0
	for _, seat := range seats {
		if seat.SeatNumber == nil {
			aisles++
		}
		assert.False(t, seat.IsBooked)
	}
	assert.Equal(t, 1, aisles)
}

func TestCreateScreeningRejectsBadInterval(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	start := time.Now().Add(48 * time.Hour)

	var validationErr *ValidationError

	_, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start))
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(-time.Hour)))
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateScreeningRejectsUnknownCollaborators(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1")
	start := time.Now().Add(48 * time.Hour)
	end := start.Add(2 * time.Hour)

	_, err := svc.CreateScreening(context.Background(), createReq(uuid.New(), screenID, start, end))
	require.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svc.CreateScreening(context.Background(), createReq(movieID, uuid.New(), start, end))
	require.ErrorIs(t, err, ErrScreenNotFound)
}

func TestCreateScreeningRejectsEmptyLayout(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := uuid.New()
	m.screen.screens[screenID] = &entity.Screen{Base: entity.Base{ID: screenID}, Name: "Bare"}
	m.screen.layouts[screenID] = []*entity.LayoutCell{
		{ScreenID: screenID, RowIndex: 0, ColIndex: 0}, // all aisles
		{ScreenID: screenID, RowIndex: 0, ColIndex: 1},
	}

	start := time.Now().Add(48 * time.Hour)
	var validationErr *ValidationError
	_, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(time.Hour)))
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "screen_id")
}

func TestCreateScreeningDetectsOverlap(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	first, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, day, day.Add(2*time.Hour)))
	require.NoError(t, err)

	var conflictErr *ConflictError
	_, err = svc.CreateScreening(context.Background(), createReq(movieID, screenID, day.Add(time.Hour), day.Add(3*time.Hour)))
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, first.ID, conflictErr.Conflicts[0].ScreeningID.String())

	// Back to back on the same screen is fine: intervals are half-open.
	_, err = svc.CreateScreening(context.Background(), createReq(movieID, screenID, day.Add(2*time.Hour), day.Add(4*time.Hour)))
	require.NoError(t, err)

	// A different screen never conflicts.
	otherScreen := seedScreen(m, "B1", "B2")
	_, err = svc.CreateScreening(context.Background(), createReq(movieID, otherScreen, day.Add(time.Hour), day.Add(3*time.Hour)))
	require.NoError(t, err)
}

func TestBulkCreateScreeningsAllOrNothing(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	req := &request.BulkCreateScreeningsRequest{
		Screenings: []request.CreateScreeningRequest{
			*createReq(movieID, screenID, day, day.Add(2*time.Hour)),
			// overlaps the first entry of the same batch
			*createReq(movieID, screenID, day.Add(time.Hour), day.Add(3*time.Hour)),
		},
	}

	var conflictErr *ConflictError
	_, err := svc.BulkCreateScreenings(context.Background(), req)
	require.ErrorAs(t, err, &conflictErr)
	assert.Contains(t, err.Error(), "screening 1")

	// Nothing from the batch was persisted.
	assert.Empty(t, m.screening.screenings)
}

func TestBulkCreateScreenings(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	req := &request.BulkCreateScreeningsRequest{
		Screenings: []request.CreateScreeningRequest{
			*createReq(movieID, screenID, day, day.Add(2*time.Hour)),
			*createReq(movieID, screenID, day.Add(2*time.Hour), day.Add(4*time.Hour)),
		},
	}

	responses, err := svc.BulkCreateScreenings(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Len(t, m.screening.screenings, 2)
}

func TestUpdateScreeningMoveToNewScreenPreservesBookings(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	oldScreen := seedScreen(m, "A1", "A2", "C9")
	newScreen := seedScreen(m, "A1", "B1", "B2")

	start := time.Now().Add(48 * time.Hour)
	created, err := svc.CreateScreening(context.Background(), createReq(movieID, oldScreen, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	screeningID := uuid.MustParse(created.ID)
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.SeatNumber != nil && (*seat.SeatNumber == "A1" || *seat.SeatNumber == "C9") {
			seat.IsBooked = true
		}
	}

	updateReq := &request.UpdateScreeningRequest{
		MovieID:   movieID.String(),
		ScreenID:  newScreen.String(),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		ShowType:  "regular",
		Pricing:   validPricing(),
	}

	resp, err := svc.UpdateScreening(context.Background(), created.ID, updateReq)
	require.NoError(t, err)

	// A1 exists on the new screen; C9 does not and its booking is dropped.
	assert.Equal(t, 1, resp.PreservedBookedSeats)
	assert.Equal(t, 3, resp.TotalSeats)
	assert.Equal(t, newScreen.String(), resp.ScreenID)

	booked := 0
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.IsBooked {
			require.NotNil(t, seat.SeatNumber)
			assert.Equal(t, "A1", *seat.SeatNumber)
			booked++
		}
	}
	assert.Equal(t, 1, booked)
}

func TestUpdateScreeningRederivesStatus(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	start := time.Now().Add(48 * time.Hour)
	created, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	// Moving the interval into the past completes the screening.
	past := time.Now().Add(-3 * time.Hour)
	resp, err := svc.UpdateScreening(context.Background(), created.ID, &request.UpdateScreeningRequest{
		MovieID:   movieID.String(),
		ScreenID:  screenID.String(),
		StartTime: past,
		EndTime:   past.Add(2 * time.Hour),
		ShowType:  "regular",
		Pricing:   validPricing(),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestDeleteScreening(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	start := time.Now().Add(48 * time.Hour)
	created, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScreening(context.Background(), created.ID))
	require.ErrorIs(t, svc.DeleteScreening(context.Background(), created.ID), ErrScreeningNotFound)
}

func TestGetScreeningByIDComputesCurrentPrices(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2", "A3", "A4")

	start := time.Now().Add(48 * time.Hour)
	created, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	screeningID := uuid.MustParse(created.ID)
	for _, seat := range m.seat.inventories[screeningID] {
		if seat.SeatNumber != nil && *seat.SeatNumber == "A1" {
			seat.IsBooked = true
		}
	}

	detail, err := svc.GetScreeningByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, detail.SoldSeats)
	assert.Equal(t, 0.25, detail.FillRate)
	assert.Equal(t, "Test Feature", detail.MovieTitle)
	// 200 + 0.1*0.25*200 + 0.05*0.4*200 = 209
	assert.Equal(t, 209.0, detail.CurrentPrices.Standard)
}

func TestCheckConflicts(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	created, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, day, day.Add(2*time.Hour)))
	require.NoError(t, err)

	conflicts, err := svc.CheckConflicts(context.Background(), screenID.String(), day.Add(time.Hour), day.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, created.ID, conflicts[0].ScreeningID)

	conflicts, err = svc.CheckConflicts(context.Background(), screenID.String(), day.Add(2*time.Hour), day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	_, err = svc.CheckConflicts(context.Background(), uuid.New().String(), day, day.Add(time.Hour))
	require.ErrorIs(t, err, ErrScreenNotFound)
}

func TestGetScreeningsRejectsUnknownStatus(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewScheduleService(repo, zap.NewNop())

	movieID := seedMovie(m, "action")
	screenID := seedScreen(m, "A1", "A2")

	start := time.Now().Add(48 * time.Hour)
	_, err := svc.CreateScreening(context.Background(), createReq(movieID, screenID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	bogus := "archived"
	var valErr *ValidationError
	_, err = svc.GetScreenings(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10}, &bogus, nil)
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "status")

	upcoming := "upcoming"
	page, err := svc.GetScreenings(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10}, &upcoming, nil)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}
