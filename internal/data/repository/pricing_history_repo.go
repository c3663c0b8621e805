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

type PricingHistoryRepository interface {
	// Create appends one snapshot. The history is append-only: there is no
	// update or delete path.
	Create(ctx context.Context, snapshot *entity.PricingSnapshot) error
	FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.PricingSnapshot, error)
	FindLatest(ctx context.Context, screeningID uuid.UUID) (*entity.PricingSnapshot, error)
}

type pricingHistoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingHistoryRepository(db database.PgxIface, log *zap.Logger) PricingHistoryRepository {
	return &pricingHistoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_history")),
	}
}

func (r *pricingHistoryRepository) Create(ctx context.Context, snapshot *entity.PricingSnapshot) error {
	query := `
		INSERT INTO pricing_snapshots (id, screening_id, sold_seats, standard_price, premium_price, cumulative_revenue, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		snapshot.ID,
		snapshot.ScreeningID,
		snapshot.SoldSeats,
		snapshot.StandardPrice,
		snapshot.PremiumPrice,
		snapshot.CumulativeRevenue,
		snapshot.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create pricing snapshot",
			zap.Error(err),
			zap.String("screening_id", snapshot.ScreeningID.String()),
		)
		return fmt.Errorf("create pricing snapshot for screening %s: %w",
			snapshot.ScreeningID.String(), err)
	}

	return nil
}

func (r *pricingHistoryRepository) FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.PricingSnapshot, error) {
	query := `
		SELECT id, screening_id, sold_seats, standard_price, premium_price, cumulative_revenue, created_at
		FROM pricing_snapshots
		WHERE screening_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find pricing history",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find pricing history for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	var snapshots []*entity.PricingSnapshot
	for rows.Next() {
		var snapshot entity.PricingSnapshot
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.ScreeningID,
			&snapshot.SoldSeats,
			&snapshot.StandardPrice,
			&snapshot.PremiumPrice,
			&snapshot.CumulativeRevenue,
			&snapshot.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan pricing snapshot row", zap.Error(err))
			return nil, fmt.Errorf("scan pricing snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, nil
}

func (r *pricingHistoryRepository) FindLatest(ctx context.Context, screeningID uuid.UUID) (*entity.PricingSnapshot, error) {
	query := `
		SELECT id, screening_id, sold_seats, standard_price, premium_price, cumulative_revenue, created_at
		FROM pricing_snapshots
		WHERE screening_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var snapshot entity.PricingSnapshot
	err := r.db.QueryRow(ctx, query, screeningID).Scan(
		&snapshot.ID,
		&snapshot.ScreeningID,
		&snapshot.SoldSeats,
		&snapshot.StandardPrice,
		&snapshot.PremiumPrice,
		&snapshot.CumulativeRevenue,
		&snapshot.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest pricing snapshot",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find latest pricing snapshot for screening %s: %w", screeningID.String(), err)
	}

	return &snapshot, nil
}
