package repository

import (
	"context"
	"fmt"

	"showtime-engine/internal/data/entity"
	"showtime-engine/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeatBookingFailure classifies why a batch seat booking could not be
// applied. Both lists together cover every problem seat in the request.
type SeatBookingFailure struct {
	AlreadyBooked []string
	NotBookable   []string
}

type ScreeningSeatRepository interface {
	FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.ScreeningSeat, error)
	CountBooked(ctx context.Context, screeningID uuid.UUID) (int, error)
	// BookSeats marks every seat booked in one conditional write: the update
	// only touches live, currently-free seats and the transaction commits
	// only if it touched exactly len(seatNumbers) rows. On shortfall it rolls
	// back and returns a failure describing every problem seat.
	BookSeats(ctx context.Context, screeningID uuid.UUID, seatNumbers []string) (*SeatBookingFailure, error)
	// FreeSeats is best-effort: aisles and unknown seat numbers are ignored.
	FreeSeats(ctx context.Context, screeningID uuid.UUID, seatNumbers []string) (int64, error)
	// ReplaceForScreening swaps the whole inventory in one transaction,
	// used when a screening moves to a different screen.
	ReplaceForScreening(ctx context.Context, screeningID uuid.UUID, seats []*entity.ScreeningSeat) error
}

type screeningSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreeningSeatRepository(db database.PgxIface, log *zap.Logger) ScreeningSeatRepository {
	return &screeningSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening_seat")),
	}
}

// insertSeatsTx bulk-inserts inventory rows inside the caller's transaction.
func insertSeatsTx(ctx context.Context, tx pgx.Tx, screeningID uuid.UUID, seats []*entity.ScreeningSeat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `INSERT INTO screening_seats (screening_id, position, seat_number, category, is_booked) VALUES `
	args := make([]any, 0, len(seats)*5)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", i*5+1, i*5+2, i*5+3, i*5+4, i*5+5)
		args = append(args, screeningID, seat.Position, seat.SeatNumber, seat.Category, seat.IsBooked)
	}

	_, err := tx.Exec(ctx, query, args...)
	return err
}

func (r *screeningSeatRepository) FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.ScreeningSeat, error) {
	query := `
		SELECT screening_id, position, seat_number, category, is_booked
		FROM screening_seats
		WHERE screening_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find screening seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find seats for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.ScreeningSeat
	for rows.Next() {
		var seat entity.ScreeningSeat
		err := rows.Scan(
			&seat.ScreeningID,
			&seat.Position,
			&seat.SeatNumber,
			&seat.Category,
			&seat.IsBooked,
		)
		if err != nil {
			r.log.Error("Failed to scan screening seat row", zap.Error(err))
			return nil, fmt.Errorf("scan screening seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *screeningSeatRepository) CountBooked(ctx context.Context, screeningID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM screening_seats WHERE screening_id = $1 AND is_booked = TRUE`

	var count int
	if err := r.db.QueryRow(ctx, query, screeningID).Scan(&count); err != nil {
		r.log.Error("Failed to count booked seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return 0, fmt.Errorf("count booked seats for screening %s: %w", screeningID.String(), err)
	}

	return count, nil
}

func (r *screeningSeatRepository) BookSeats(ctx context.Context, screeningID uuid.UUID, seatNumbers []string) (*SeatBookingFailure, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin book seats: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE screening_seats
		SET is_booked = TRUE
		WHERE screening_id = $1
			AND seat_number = ANY($2)
			AND is_booked = FALSE
	`

	result, err := tx.Exec(ctx, query, screeningID, seatNumbers)
	if err != nil {
		r.log.Error("Failed to book seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.Strings("seats", seatNumbers),
		)
		return nil, fmt.Errorf("book seats for screening %s: %w", screeningID.String(), err)
	}

	if result.RowsAffected() == int64(len(seatNumbers)) {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit book seats: %w", err)
		}
		return nil, nil
	}

	// Shortfall: roll back and report every problem seat, not just the first.
	failure, ferr := r.classifyFailure(ctx, screeningID, seatNumbers)
	if ferr != nil {
		return nil, ferr
	}

	r.log.Warn("Seat booking rejected",
		zap.String("screening_id", screeningID.String()),
		zap.Strings("already_booked", failure.AlreadyBooked),
		zap.Strings("not_bookable", failure.NotBookable),
	)

	return failure, nil
}

func (r *screeningSeatRepository) classifyFailure(ctx context.Context, screeningID uuid.UUID, seatNumbers []string) (*SeatBookingFailure, error) {
	query := `
		SELECT seat_number, is_booked
		FROM screening_seats
		WHERE screening_id = $1 AND seat_number = ANY($2)
	`

	rows, err := r.db.Query(ctx, query, screeningID, seatNumbers)
	if err != nil {
		return nil, fmt.Errorf("classify seat failure for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(seatNumbers))
	failure := &SeatBookingFailure{}
	for rows.Next() {
		var seatNumber string
		var isBooked bool
		if err := rows.Scan(&seatNumber, &isBooked); err != nil {
			return nil, fmt.Errorf("scan seat state row: %w", err)
		}
		found[seatNumber] = true
		if isBooked {
			failure.AlreadyBooked = append(failure.AlreadyBooked, seatNumber)
		}
	}

	// Requested numbers with no live row are aisles or unknown seats.
	for _, seatNumber := range seatNumbers {
		if !found[seatNumber] {
			failure.NotBookable = append(failure.NotBookable, seatNumber)
		}
	}

	return failure, nil
}

func (r *screeningSeatRepository) FreeSeats(ctx context.Context, screeningID uuid.UUID, seatNumbers []string) (int64, error) {
	query := `
		UPDATE screening_seats
		SET is_booked = FALSE
		WHERE screening_id = $1
			AND seat_number = ANY($2)
			AND is_booked = TRUE
	`

	result, err := r.db.Exec(ctx, query, screeningID, seatNumbers)
	if err != nil {
		r.log.Error("Failed to free seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.Strings("seats", seatNumbers),
		)
		return 0, fmt.Errorf("free seats for screening %s: %w", screeningID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *screeningSeatRepository) ReplaceForScreening(ctx context.Context, screeningID uuid.UUID, seats []*entity.ScreeningSeat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace seats: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM screening_seats WHERE screening_id = $1`, screeningID); err != nil {
		r.log.Error("Failed to clear seat inventory",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return fmt.Errorf("clear seat inventory for screening %s: %w", screeningID.String(), err)
	}

	if err := insertSeatsTx(ctx, tx, screeningID, seats); err != nil {
		r.log.Error("Failed to insert replacement seat inventory",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return fmt.Errorf("insert replacement seats for screening %s: %w", screeningID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace seats: %w", err)
	}

	return nil
}
