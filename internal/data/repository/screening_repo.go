package repository

import (
	"context"
	"fmt"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SweepResult reports how many screenings each set-based status update
// touched during a lifecycle sweep.
type SweepResult struct {
	Upcoming  int64
	Live      int64
	Completed int64
}

type ScreeningRepository interface {
	// Create inserts the screening and its seat inventory snapshot in one
	// transaction.
	Create(ctx context.Context, screening *entity.Screening, seats []*entity.ScreeningSeat) error
	// CreateBatch inserts every screening with its seats in a single
	// transaction; either all rows land or none do.
	CreateBatch(ctx context.Context, screenings []*entity.Screening, seats [][]*entity.ScreeningSeat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error)
	FindAll(ctx context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID, limit, offset int) ([]*entity.Screening, error)
	Count(ctx context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID) (int64, error)
	// FindOverlapping returns screenings on the screen whose half-open
	// [start_time, end_time) interval overlaps the given one, excluding
	// excludeID when non-nil.
	FindOverlapping(ctx context.Context, screenID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error)
	Update(ctx context.Context, screening *entity.Screening) error
	// UpdateFactors persists re-tuned pricing coefficients only.
	UpdateFactors(ctx context.Context, id uuid.UUID, alpha, beta float64) error
	// SweepStatuses applies the wall-clock status rule as three conditional
	// set-based updates. Idempotent for the same now.
	SweepStatuses(ctx context.Context, now time.Time) (*SweepResult, error)
	// AverageFactorsByGenre returns the mean alpha/beta over already-ended
	// screenings of movies in the genre, and how many contributed. Future
	// screenings carry unvalidated factors and are excluded.
	AverageFactorsByGenre(ctx context.Context, genre string) (alpha, beta float64, count int64, err error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type screeningRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreeningRepository(db database.PgxIface, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

const screeningColumns = `id, movie_id, screen_id, start_time, end_time, show_type, status,
		standard_base_price, premium_base_price, alpha, beta, total_seats, created_at, updated_at`

func statusArg(status *entity.ScreeningStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func scanScreening(row pgx.Row) (*entity.Screening, error) {
	var s entity.Screening
	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.ScreenID,
		&s.StartTime,
		&s.EndTime,
		&s.ShowType,
		&s.Status,
		&s.Pricing.StandardBasePrice,
		&s.Pricing.PremiumBasePrice,
		&s.Pricing.Alpha,
		&s.Pricing.Beta,
		&s.TotalSeats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func insertScreeningTx(ctx context.Context, tx pgx.Tx, s *entity.Screening) error {
	query := `
		INSERT INTO screenings (id, movie_id, screen_id, start_time, end_time, show_type, status,
			standard_base_price, premium_base_price, alpha, beta, total_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := tx.Exec(ctx, query,
		s.ID,
		s.MovieID,
		s.ScreenID,
		s.StartTime,
		s.EndTime,
		s.ShowType,
		s.Status,
		s.Pricing.StandardBasePrice,
		s.Pricing.PremiumBasePrice,
		s.Pricing.Alpha,
		s.Pricing.Beta,
		s.TotalSeats,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *screeningRepository) Create(ctx context.Context, screening *entity.Screening, seats []*entity.ScreeningSeat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create screening: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertScreeningTx(ctx, tx, screening); err != nil {
		r.log.Error("Failed to create screening",
			zap.Error(err),
			zap.String("movie_id", screening.MovieID.String()),
			zap.String("screen_id", screening.ScreenID.String()),
		)
		return fmt.Errorf("create screening for movie %s screen %s: %w",
			screening.MovieID.String(), screening.ScreenID.String(), err)
	}

	if err := insertSeatsTx(ctx, tx, screening.ID, seats); err != nil {
		r.log.Error("Failed to create seat inventory",
			zap.Error(err),
			zap.String("screening_id", screening.ID.String()),
		)
		return fmt.Errorf("create seat inventory for screening %s: %w", screening.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create screening: %w", err)
	}

	return nil
}

func (r *screeningRepository) CreateBatch(ctx context.Context, screenings []*entity.Screening, seats [][]*entity.ScreeningSeat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk create screenings: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, screening := range screenings {
		if err := insertScreeningTx(ctx, tx, screening); err != nil {
			r.log.Error("Failed to bulk create screening",
				zap.Error(err),
				zap.Int("index", i),
				zap.String("screening_id", screening.ID.String()),
			)
			return fmt.Errorf("bulk create screening %d: %w", i, err)
		}
		if err := insertSeatsTx(ctx, tx, screening.ID, seats[i]); err != nil {
			return fmt.Errorf("bulk create seat inventory %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk create screenings: %w", err)
	}

	r.log.Info("Screenings bulk created", zap.Int("count", len(screenings)))
	return nil
}

func (r *screeningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	query := `
		SELECT ` + screeningColumns + `
		FROM screenings
		WHERE id = $1 AND deleted_at IS NULL
	`

	screening, err := scanScreening(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening by ID",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return nil, fmt.Errorf("find screening by ID %s: %w", id.String(), err)
	}

	return screening, nil
}

func (r *screeningRepository) FindAll(ctx context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID, limit, offset int) ([]*entity.Screening, error) {
	query := `
		SELECT ` + screeningColumns + `
		FROM screenings
		WHERE deleted_at IS NULL
			AND ($1::text IS NULL OR status = $1)
			AND ($2::uuid IS NULL OR movie_id = $2)
		ORDER BY start_time
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, statusArg(status), movieID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find screenings", zap.Error(err))
		return nil, fmt.Errorf("find screenings: %w", err)
	}
	defer rows.Close()

	var screenings []*entity.Screening
	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, screening)
	}

	return screenings, nil
}

func (r *screeningRepository) Count(ctx context.Context, status *entity.ScreeningStatus, movieID *uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM screenings
		WHERE deleted_at IS NULL
			AND ($1::text IS NULL OR status = $1)
			AND ($2::uuid IS NULL OR movie_id = $2)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, statusArg(status), movieID).Scan(&count); err != nil {
		r.log.Error("Failed to count screenings", zap.Error(err))
		return 0, fmt.Errorf("count screenings: %w", err)
	}

	return count, nil
}

func (r *screeningRepository) FindOverlapping(ctx context.Context, screenID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error) {
	// Half-open interval overlap: existing.start < end AND existing.end > start.
	query := `
		SELECT ` + screeningColumns + `
		FROM screenings
		WHERE deleted_at IS NULL
			AND screen_id = $1
			AND start_time < $3
			AND end_time > $2
			AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, screenID, start, end, excludeID)
	if err != nil {
		r.log.Error("Failed to find overlapping screenings",
			zap.Error(err),
			zap.String("screen_id", screenID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping screenings on screen %s: %w", screenID.String(), err)
	}
	defer rows.Close()

	var screenings []*entity.Screening
	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, screening)
	}

	return screenings, nil
}

func (r *screeningRepository) Update(ctx context.Context, screening *entity.Screening) error {
	query := `
		UPDATE screenings
		SET movie_id = $2, screen_id = $3, start_time = $4, end_time = $5, show_type = $6,
			status = $7, standard_base_price = $8, premium_base_price = $9, alpha = $10,
			beta = $11, total_seats = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		screening.ID,
		screening.MovieID,
		screening.ScreenID,
		screening.StartTime,
		screening.EndTime,
		screening.ShowType,
		screening.Status,
		screening.Pricing.StandardBasePrice,
		screening.Pricing.PremiumBasePrice,
		screening.Pricing.Alpha,
		screening.Pricing.Beta,
		screening.TotalSeats,
		screening.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update screening",
			zap.Error(err),
			zap.String("screening_id", screening.ID.String()),
		)
		return fmt.Errorf("update screening %s: %w", screening.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s not found", screening.ID.String())
	}

	return nil
}

func (r *screeningRepository) UpdateFactors(ctx context.Context, id uuid.UUID, alpha, beta float64) error {
	query := `
		UPDATE screenings
		SET alpha = $2, beta = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, alpha, beta)
	if err != nil {
		r.log.Error("Failed to update pricing factors",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return fmt.Errorf("update pricing factors for screening %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s not found", id.String())
	}

	return nil
}

func (r *screeningRepository) SweepStatuses(ctx context.Context, now time.Time) (*SweepResult, error) {
	var result SweepResult

	// Conditional writes so a concurrent sweep or manual edit is never
	// clobbered with a stale status.
	live, err := r.db.Exec(ctx, `
		UPDATE screenings SET status = 'live', updated_at = $1
		WHERE deleted_at IS NULL AND start_time <= $1 AND end_time > $1 AND status <> 'live'
	`, now)
	if err != nil {
		r.log.Error("Failed to sweep live screenings", zap.Error(err))
		return nil, fmt.Errorf("sweep live screenings: %w", err)
	}
	result.Live = live.RowsAffected()

	completed, err := r.db.Exec(ctx, `
		UPDATE screenings SET status = 'completed', updated_at = $1
		WHERE deleted_at IS NULL AND end_time <= $1 AND status <> 'completed'
	`, now)
	if err != nil {
		r.log.Error("Failed to sweep completed screenings", zap.Error(err))
		return nil, fmt.Errorf("sweep completed screenings: %w", err)
	}
	result.Completed = completed.RowsAffected()

	upcoming, err := r.db.Exec(ctx, `
		UPDATE screenings SET status = 'upcoming', updated_at = $1
		WHERE deleted_at IS NULL AND start_time > $1 AND status <> 'upcoming'
	`, now)
	if err != nil {
		r.log.Error("Failed to sweep upcoming screenings", zap.Error(err))
		return nil, fmt.Errorf("sweep upcoming screenings: %w", err)
	}
	result.Upcoming = upcoming.RowsAffected()

	return &result, nil
}

func (r *screeningRepository) AverageFactorsByGenre(ctx context.Context, genre string) (float64, float64, int64, error) {
	query := `
		SELECT AVG(s.alpha), AVG(s.beta), COUNT(*)
		FROM screenings s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.deleted_at IS NULL AND m.genre = $1 AND s.end_time <= NOW()
	`

	var avgAlpha, avgBeta *float64
	var count int64
	err := r.db.QueryRow(ctx, query, genre).Scan(&avgAlpha, &avgBeta, &count)
	if err != nil {
		r.log.Error("Failed to average pricing factors by genre",
			zap.Error(err),
			zap.String("genre", genre),
		)
		return 0, 0, 0, fmt.Errorf("average pricing factors for genre %s: %w", genre, err)
	}

	if count == 0 || avgAlpha == nil || avgBeta == nil {
		return 0, 0, 0, nil
	}

	return *avgAlpha, *avgBeta, count, nil
}

func (r *screeningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE screenings SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete screening",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return fmt.Errorf("delete screening %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s not found", id.String())
	}

	r.log.Info("Screening deleted", zap.String("screening_id", id.String()))
	return nil
}
