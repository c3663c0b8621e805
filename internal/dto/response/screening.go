package response

import "time"

type PricingRulesResponse struct {
	StandardBasePrice float64 `json:"standard_base_price"`
	PremiumBasePrice  float64 `json:"premium_base_price"`
	Alpha             float64 `json:"alpha"`
	Beta              float64 `json:"beta"`
}

type ScreeningResponse struct {
	ID         string               `json:"id"`
	MovieID    string               `json:"movie_id"`
	MovieTitle string               `json:"movie_title,omitempty"`
	ScreenID   string               `json:"screen_id"`
	ScreenName string               `json:"screen_name,omitempty"`
	StartTime  time.Time            `json:"start_time"`
	EndTime    time.Time            `json:"end_time"`
	ShowType   string               `json:"show_type"`
	Status     string               `json:"status"`
	Pricing    PricingRulesResponse `json:"pricing"`
	TotalSeats int                  `json:"total_seats"`
	CreatedAt  time.Time            `json:"created_at"`
}

type ScreeningDetailResponse struct {
	ScreeningResponse
	SoldSeats     int                `json:"sold_seats"`
	FillRate      float64            `json:"fill_rate"`
	CurrentPrices PriceQuoteResponse `json:"current_prices"`
}

type ScreeningUpdateResponse struct {
	ScreeningResponse
	// PreservedBookedSeats counts bookings carried over by seat number after
	// a screen reassignment; seats missing from the new layout are dropped.
	PreservedBookedSeats int `json:"preserved_booked_seats"`
}

type ConflictResponse struct {
	ScreeningID string    `json:"screening_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type SweepResponse struct {
	Upcoming  int64 `json:"upcoming"`
	Live      int64 `json:"live"`
	Completed int64 `json:"completed"`
}
