package request

import "time"

type PricingRulesRequest struct {
	StandardBasePrice float64 `json:"standard_base_price" validate:"required,gt=0"`
	PremiumBasePrice  float64 `json:"premium_base_price" validate:"required,gt=0"`
	// Alpha and Beta are policy-bounded (roughly [0, 0.2] / [0, 0.1]) but
	// only non-negativity is enforced here.
	Alpha float64 `json:"alpha" validate:"min=0"`
	Beta  float64 `json:"beta" validate:"min=0"`
}

type CreateScreeningRequest struct {
	MovieID   string              `json:"movie_id" validate:"required,uuid4"`
	ScreenID  string              `json:"screen_id" validate:"required,uuid4"`
	StartTime time.Time           `json:"start_time" validate:"required"`
	EndTime   time.Time           `json:"end_time" validate:"required"`
	ShowType  string              `json:"show_type" validate:"required,oneof=regular special"`
	Pricing   PricingRulesRequest `json:"pricing" validate:"required"`
}

type UpdateScreeningRequest struct {
	MovieID   string              `json:"movie_id" validate:"required,uuid4"`
	ScreenID  string              `json:"screen_id" validate:"required,uuid4"`
	StartTime time.Time           `json:"start_time" validate:"required"`
	EndTime   time.Time           `json:"end_time" validate:"required"`
	ShowType  string              `json:"show_type" validate:"required,oneof=regular special"`
	Pricing   PricingRulesRequest `json:"pricing" validate:"required"`
}

type BulkCreateScreeningsRequest struct {
	Screenings []CreateScreeningRequest `json:"screenings" validate:"required,min=1,dive"`
}
