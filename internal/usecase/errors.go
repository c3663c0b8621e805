package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrScreenNotFound    = errors.New("screen not found")
	ErrScreeningNotFound = errors.New("screening not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingClosed     = errors.New("booking window is closed")
	ErrShowNotEnded      = errors.New("screening has not ended yet")
	ErrBookingNotPending = errors.New("booking is not pending")
	ErrBookingCancelled  = errors.New("booking is already cancelled")
)

// ValidationError reports malformed input: a bad interval, a missing field,
// a layout with no bookable seats.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	var msgs []string
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(msgs, "; "))
}

// TimeRange names one screening whose interval clashes with a proposal.
type TimeRange struct {
	ScreeningID uuid.UUID `json:"screening_id"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
}

// ConflictError carries every overlapping screening on the screen, not
// just the first one found.
type ConflictError struct {
	ScreenID  uuid.UUID
	Conflicts []TimeRange
}

func (e *ConflictError) Error() string {
	ranges := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ranges[i] = fmt.Sprintf("%s - %s", c.Start.Format(time.RFC3339), c.End.Format(time.RFC3339))
	}
	return fmt.Sprintf("schedule conflict on screen %s with %d screening(s): %s",
		e.ScreenID.String(), len(e.Conflicts), strings.Join(ranges, ", "))
}

// SeatUnavailableError carries the full list of problem seats from a batch
// booking attempt. The batch is all-or-nothing: none of the requested seats
// were booked.
type SeatUnavailableError struct {
	AlreadyBooked []string
	NotBookable   []string
}

func (e *SeatUnavailableError) Error() string {
	var parts []string
	if len(e.AlreadyBooked) > 0 {
		parts = append(parts, fmt.Sprintf("already booked: %s", strings.Join(e.AlreadyBooked, ", ")))
	}
	if len(e.NotBookable) > 0 {
		parts = append(parts, fmt.Sprintf("not bookable: %s", strings.Join(e.NotBookable, ", ")))
	}
	return "seats unavailable (" + strings.Join(parts, "; ") + ")"
}

// SeatNotFoundError marks a booking referencing a seat number absent from
// its screening's inventory.
type SeatNotFoundError struct {
	SeatNumber string
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("seat %s not found in screening inventory", e.SeatNumber)
}
