package response

import "time"

type BookingResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	ScreeningID string    `json:"screening_id"`
	SeatNumbers []string  `json:"seat_numbers"`
	TotalSeats  int       `json:"total_seats"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// SeatCellResponse mirrors one flattened inventory cell; aisles have no
// seat number or category.
type SeatCellResponse struct {
	Position   int     `json:"position"`
	SeatNumber *string `json:"seat_number"`
	Category   string  `json:"category,omitempty"`
	IsBooked   bool    `json:"is_booked"`
}

type SeatMapResponse struct {
	ScreeningID    string             `json:"screening_id"`
	Cells          []SeatCellResponse `json:"cells"`
	AvailableSeats []string           `json:"available_seats"`
}

type OccupancyResponse struct {
	ScreeningID string  `json:"screening_id"`
	SoldSeats   int     `json:"sold_seats"`
	TotalSeats  int     `json:"total_seats"`
	FillRate    float64 `json:"fill_rate"`
}

type TotalPriceResponse struct {
	BookingID  string  `json:"booking_id"`
	TotalPrice float64 `json:"total_price"`
}
