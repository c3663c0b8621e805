package entity

import "github.com/google/uuid"

type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "standard"
	SeatCategoryPremium  SeatCategory = "premium"
	SeatCategoryVIP      SeatCategory = "vip"
)

// Screen is a collaborator entity owning the seat layout. The engine
// snapshots the layout at screening creation and never writes it.
type Screen struct {
	Base
	Name     string `db:"name"`
	RowCount int    `db:"row_count"`
	ColCount int    `db:"col_count"`
}

// LayoutCell is one cell of a screen's seat grid. A nil SeatNumber marks
// an aisle: the cell keeps its position but is never bookable or counted.
type LayoutCell struct {
	ScreenID   uuid.UUID    `db:"screen_id"`
	RowIndex   int          `db:"row_index"`
	ColIndex   int          `db:"col_index"`
	SeatNumber *string      `db:"seat_number"` // A1, A2, B1, etc.
	Category   SeatCategory `db:"category"`
}
