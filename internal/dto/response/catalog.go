package response

import "time"

type MovieResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Genre             string    `json:"genre"`
	Rating            float64   `json:"rating"`
	ReleaseDate       time.Time `json:"release_date"`
	DurationInMinutes int       `json:"duration_in_minutes"`
	ReleaseStatus     string    `json:"release_status"`
}

type LayoutCellResponse struct {
	RowIndex   int     `json:"row_index"`
	ColIndex   int     `json:"col_index"`
	SeatNumber *string `json:"seat_number"`
	Category   string  `json:"category,omitempty"`
}

type ScreenResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	RowCount int                  `json:"row_count"`
	ColCount int                  `json:"col_count"`
	Layout   []LayoutCellResponse `json:"layout,omitempty"`
}
