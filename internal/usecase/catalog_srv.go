package usecase

import (
	"context"
	"fmt"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/dto/request"
	"showtime-engine/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService exposes the read-only collaborator entities (movies and
// screens) the engine schedules against.
type CatalogService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	GetScreenByID(ctx context.Context, screenID string) (*response.ScreenResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func movieToResponse(m *entity.Movie) response.MovieResponse {
	return response.MovieResponse{
		ID:                m.ID.String(),
		Title:             m.Title,
		Genre:             m.Genre,
		Rating:            m.Rating,
		ReleaseDate:       m.ReleaseDate,
		DurationInMinutes: m.DurationInMinutes,
		ReleaseStatus:     string(m.ReleaseStatus),
	}
}

func (s *catalogService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	responses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		responses[i] = movieToResponse(movie)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID format %s: %w", movieID, err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	resp := movieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) GetScreenByID(ctx context.Context, screenID string) (*response.ScreenResponse, error) {
	id, err := uuid.Parse(screenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID format %s: %w", screenID, err)
	}

	screen, err := s.repo.Screen.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screen %s: %w", screenID, err)
	}
	if screen == nil {
		return nil, ErrScreenNotFound
	}

	layout, err := s.repo.Screen.FindLayout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screen layout: %w", err)
	}

	cells := make([]response.LayoutCellResponse, len(layout))
	for i, cell := range layout {
		cells[i] = response.LayoutCellResponse{
			RowIndex:   cell.RowIndex,
			ColIndex:   cell.ColIndex,
			SeatNumber: cell.SeatNumber,
		}
		if cell.SeatNumber != nil {
			cells[i].Category = string(cell.Category)
		}
	}

	return &response.ScreenResponse{
		ID:       screen.ID.String(),
		Name:     screen.Name,
		RowCount: screen.RowCount,
		ColCount: screen.ColCount,
		Layout:   cells,
	}, nil
}
