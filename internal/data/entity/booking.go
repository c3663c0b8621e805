package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking references seats by seat number because the screening inventory
// is keyed by seat number, not by layout row id. TotalPrice is always
// derived from the pricing engine, never taken from the caller.
// Cancellation is a status transition; bookings are never hard-deleted.
type Booking struct {
	Base
	OrderID     string        `db:"order_id"`
	UserID      uuid.UUID     `db:"user_id"`
	ScreeningID uuid.UUID     `db:"screening_id"`
	SeatNumbers []string      `db:"seat_numbers"`
	TotalSeats  int           `db:"total_seats"`
	TotalPrice  float64       `db:"total_price"`
	Status      BookingStatus `db:"status"`
}
