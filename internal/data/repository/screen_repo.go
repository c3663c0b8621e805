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

type ScreenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error)
	// FindLayout returns the screen's seat grid ordered row-major, aisle
	// cells included. The engine treats this as a point-in-time snapshot.
	FindLayout(ctx context.Context, screenID uuid.UUID) ([]*entity.LayoutCell, error)
}

type screenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreenRepository(db database.PgxIface, log *zap.Logger) ScreenRepository {
	return &screenRepository{
		db:  db,
		log: log.With(zap.String("repository", "screen")),
	}
}

func (r *screenRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	query := `
		SELECT id, name, row_count, col_count, created_at, updated_at
		FROM screens
		WHERE id = $1 AND deleted_at IS NULL
	`

	var screen entity.Screen
	err := r.db.QueryRow(ctx, query, id).Scan(
		&screen.ID,
		&screen.Name,
		&screen.RowCount,
		&screen.ColCount,
		&screen.CreatedAt,
		&screen.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screen by ID",
			zap.Error(err),
			zap.String("screen_id", id.String()),
		)
		return nil, fmt.Errorf("find screen by ID %s: %w", id.String(), err)
	}

	return &screen, nil
}

func (r *screenRepository) FindLayout(ctx context.Context, screenID uuid.UUID) ([]*entity.LayoutCell, error) {
	query := `
		SELECT screen_id, row_index, col_index, seat_number, category
		FROM screen_layout_cells
		WHERE screen_id = $1
		ORDER BY row_index, col_index
	`

	rows, err := r.db.Query(ctx, query, screenID)
	if err != nil {
		r.log.Error("Failed to find screen layout",
			zap.Error(err),
			zap.String("screen_id", screenID.String()),
		)
		return nil, fmt.Errorf("find layout for screen %s: %w", screenID.String(), err)
	}
	defer rows.Close()

	var cells []*entity.LayoutCell
	for rows.Next() {
		var cell entity.LayoutCell
		err := rows.Scan(
			&cell.ScreenID,
			&cell.RowIndex,
			&cell.ColIndex,
			&cell.SeatNumber,
			&cell.Category,
		)
		if err != nil {
			r.log.Error("Failed to scan layout cell row", zap.Error(err))
			return nil, fmt.Errorf("scan layout cell row: %w", err)
		}
		cells = append(cells, &cell)
	}

	return cells, nil
}
