package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShowType string

const (
	ShowTypeRegular ShowType = "regular"
	ShowTypeSpecial ShowType = "special"
)

type ScreeningStatus string

const (
	ScreeningStatusUpcoming  ScreeningStatus = "upcoming"
	ScreeningStatusLive      ScreeningStatus = "live"
	ScreeningStatusCompleted ScreeningStatus = "completed"
)

// PricingRules holds the per-screening coefficients of the pricing model.
// Alpha weights occupancy-driven increase, Beta weights proximity-to-start.
type PricingRules struct {
	StandardBasePrice float64 `db:"standard_base_price"`
	PremiumBasePrice  float64 `db:"premium_base_price"`
	Alpha             float64 `db:"alpha"`
	Beta              float64 `db:"beta"`
}

// Screening places a movie on a screen for a half-open [StartTime, EndTime)
// interval. TotalSeats counts bookable (non-aisle) cells of the layout
// snapshot taken at creation and only changes on screen reassignment.
type Screening struct {
	Base
	MovieID    uuid.UUID       `db:"movie_id"`
	ScreenID   uuid.UUID       `db:"screen_id"`
	StartTime  time.Time       `db:"start_time"`
	EndTime    time.Time       `db:"end_time"`
	ShowType   ShowType        `db:"show_type"`
	Status     ScreeningStatus `db:"status"`
	Pricing    PricingRules
	TotalSeats int `db:"total_seats"`
}

// ScreeningSeat is one cell of a screening's seat inventory, flattened
// row-major from the screen layout at creation. Position preserves the
// original cell order; a nil SeatNumber is an aisle carried over so the
// inventory mirrors the layout shape. Seat state is only ever changed by
// conditional updates keyed on seat number, never by position.
type ScreeningSeat struct {
	ScreeningID uuid.UUID    `db:"screening_id"`
	Position    int          `db:"position"`
	SeatNumber  *string      `db:"seat_number"`
	Category    SeatCategory `db:"category"`
	IsBooked    bool         `db:"is_booked"`
}

// PricingSnapshot is one row of a screening's append-only pricing history,
// written after every confirmed booking and consumed by the post-hoc
// factor optimizer.
type PricingSnapshot struct {
	BaseSimple
	ScreeningID       uuid.UUID `db:"screening_id"`
	SoldSeats         int       `db:"sold_seats"`
	StandardPrice     float64   `db:"standard_price"`
	PremiumPrice      float64   `db:"premium_price"`
	CumulativeRevenue float64   `db:"cumulative_revenue"`
}
