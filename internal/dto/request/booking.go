package request

type CreateBookingRequest struct {
	UserID      string   `json:"user_id" validate:"required,uuid4"`
	ScreeningID string   `json:"screening_id" validate:"required,uuid4"`
	SeatNumbers []string `json:"seat_numbers" validate:"required,min=1,unique,dive,required"`
}
