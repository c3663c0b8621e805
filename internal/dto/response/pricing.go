package response

type PriceQuoteResponse struct {
	Standard float64 `json:"standard"`
	Premium  float64 `json:"premium"`
}

type ScreeningPricesResponse struct {
	ScreeningID  string             `json:"screening_id"`
	ShowType     string             `json:"show_type"`
	SoldSeats    int                `json:"sold_seats"`
	TotalSeats   int                `json:"total_seats"`
	HoursToStart float64            `json:"hours_to_start"`
	Prices       PriceQuoteResponse `json:"prices"`
}

type FactorSuggestionResponse struct {
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Rationale string  `json:"rationale"`
}

type FactorOptimizationResponse struct {
	Alpha             float64 `json:"alpha"`
	Beta              float64 `json:"beta"`
	FillRate          float64 `json:"fill_rate"`
	SalesAcceleration float64 `json:"sales_acceleration"`
	Rationale         string  `json:"rationale"`
}
