package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"showtime-engine/internal/data/entity"
	"showtime-engine/internal/data/repository"
	"showtime-engine/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coefficient bounds and targets of the pricing model. The bases are policy
// defaults, not contracts; the clamps keep re-tuned factors inside sane
// bounds.
const (
	specialShowMarkup = 1.2

	alphaHighDemand   = 0.15
	alphaMediumDemand = 0.10
	alphaLowDemand    = 0.05

	betaEveningSlot = 0.08
	betaMatineeSlot = 0.05
	betaOffPeakSlot = 0.03

	alphaMin = 0.0
	alphaMax = 0.2
	betaMin  = 0.0
	betaMax  = 0.1

	historicalBlendWeight = 0.7

	targetFillRate     = 0.8
	targetLastDayShare = 0.3
)

var highDemandGenres = map[string]struct{}{
	"action":    {},
	"adventure": {},
	"sci-fi":    {},
	"superhero": {},
	"thriller":  {},
}

var lowDemandGenres = map[string]struct{}{
	"classic":     {},
	"documentary": {},
	"indie":       {},
}

// urgencyMultiplier is a step function of hours remaining until start.
// Screenings already past their start fall into the highest bucket.
func urgencyMultiplier(hoursToStart float64) float64 {
	switch {
	case hoursToStart <= 2:
		return 1.0
	case hoursToStart <= 24:
		return 0.7
	case hoursToStart <= 72:
		return 0.4
	case hoursToStart <= 168:
		return 0.2
	default:
		return 0
	}
}

// computePrice applies the pricing model:
// price = round(base + alpha*fill*base + beta*urgency*base), where base is
// the category base price, marked up 20% (and re-rounded) for special shows.
// A zero total seat count yields a zero fill rate rather than dividing.
func computePrice(rules entity.PricingRules, showType entity.ShowType, category entity.SeatCategory, soldSeats, totalSeats int, hoursToStart float64) float64 {
	base := rules.StandardBasePrice
	if category == entity.SeatCategoryPremium {
		base = rules.PremiumBasePrice
	}
	if showType == entity.ShowTypeSpecial {
		base = math.Round(base * specialShowMarkup)
	}

	fill := 0.0
	if totalSeats > 0 {
		fill = float64(soldSeats) / float64(totalSeats)
	}

	demandComponent := rules.Alpha * fill * base
	timeComponent := rules.Beta * urgencyMultiplier(hoursToStart) * base

	return math.Round(base + demandComponent + timeComponent)
}

func genreBaseAlpha(genre string) (float64, string) {
	g := strings.ToLower(strings.TrimSpace(genre))
	if _, ok := highDemandGenres[g]; ok {
		return alphaHighDemand, "high-demand"
	}
	if _, ok := lowDemandGenres[g]; ok {
		return alphaLowDemand, "low-demand"
	}
	return alphaMediumDemand, "medium-demand"
}

func hourBaseBeta(hour int) (float64, string) {
	switch {
	case hour >= 18 && hour <= 22:
		return betaEveningSlot, "evening peak"
	case hour >= 12 && hour < 18:
		return betaMatineeSlot, "matinee"
	default:
		return betaOffPeakSlot, "off-peak"
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type PricingService interface {
	// GetScreeningPrices computes the current per-category prices for a
	// screening from its coefficients, occupancy and time to start.
	GetScreeningPrices(ctx context.Context, screeningID string) (*response.ScreeningPricesResponse, error)

	// SuggestFactors derives advisory alpha/beta for a planned screening
	// from the movie's genre, the slot's hour of day and the historical
	// factor averages of the genre. It never mutates stored state.
	SuggestFactors(ctx context.Context, movieID string, proposedStart time.Time) (*response.FactorSuggestionResponse, error)

	// OptimizeFactors re-tunes a completed screening's coefficients toward
	// the target fill rate and last-day sales share, and persists them.
	OptimizeFactors(ctx context.Context, screeningID string) (*response.FactorOptimizationResponse, error)
}

type pricingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPricingService(repo *repository.Repository, log *zap.Logger) PricingService {
	return &pricingService{
		repo: repo,
		log:  log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) GetScreeningPrices(ctx context.Context, screeningID string) (*response.ScreeningPricesResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, fmt.Errorf("invalid screening ID format %s: %w", screeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	sold, err := s.repo.ScreeningSeat.CountBooked(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count booked seats: %w", err)
	}

	hoursToStart := time.Until(screening.StartTime).Hours()

	return &response.ScreeningPricesResponse{
		ScreeningID:  screening.ID.String(),
		ShowType:     string(screening.ShowType),
		SoldSeats:    sold,
		TotalSeats:   screening.TotalSeats,
		HoursToStart: hoursToStart,
		Prices: response.PriceQuoteResponse{
			Standard: computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryStandard, sold, screening.TotalSeats, hoursToStart),
			Premium:  computePrice(screening.Pricing, screening.ShowType, entity.SeatCategoryPremium, sold, screening.TotalSeats, hoursToStart),
		},
	}, nil
}

func (s *pricingService) SuggestFactors(ctx context.Context, movieID string, proposedStart time.Time) (*response.FactorSuggestionResponse, error) {
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

	baseAlpha, demandBucket := genreBaseAlpha(movie.Genre)
	baseBeta, slotBucket := hourBaseBeta(proposedStart.Hour())

	alpha, beta := baseAlpha, baseBeta
	rationale := fmt.Sprintf("genre %q is %s (base alpha %.2f); %s slot at %02d:00 (base beta %.2f)",
		movie.Genre, demandBucket, baseAlpha, slotBucket, proposedStart.Hour(), baseBeta)

	histAlpha, histBeta, histCount, err := s.repo.Screening.AverageFactorsByGenre(ctx, movie.Genre)
	if err != nil {
		return nil, fmt.Errorf("average factors for genre %s: %w", movie.Genre, err)
	}
	if histCount > 0 {
		alpha = historicalBlendWeight*histAlpha + (1-historicalBlendWeight)*baseAlpha
		beta = historicalBlendWeight*histBeta + (1-historicalBlendWeight)*baseBeta
		rationale += fmt.Sprintf("; blended 70/30 with averages of %d prior %s screening(s)", histCount, movie.Genre)
	}

	alpha = round2(clampFloat(alpha, alphaMin, alphaMax))
	beta = round2(clampFloat(beta, betaMin, betaMax))

	s.log.Info("Pricing factors suggested",
		zap.String("movie_id", movieID),
		zap.Float64("alpha", alpha),
		zap.Float64("beta", beta),
		zap.Int64("history_count", histCount),
	)

	return &response.FactorSuggestionResponse{
		Alpha:     alpha,
		Beta:      beta,
		Rationale: rationale,
	}, nil
}

func (s *pricingService) OptimizeFactors(ctx context.Context, screeningID string) (*response.FactorOptimizationResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, fmt.Errorf("invalid screening ID format %s: %w", screeningID, err)
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	if time.Now().Before(screening.EndTime) {
		return nil, ErrShowNotEnded
	}

	sold, err := s.repo.ScreeningSeat.CountBooked(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count booked seats: %w", err)
	}

	fill := 0.0
	if screening.TotalSeats > 0 {
		fill = float64(sold) / float64(screening.TotalSeats)
	}

	// Nudge alpha toward the target fill rate.
	alphaOpt := clampFloat(screening.Pricing.Alpha+0.5*(fill-targetFillRate)*2, 0.05, alphaMax)

	history, err := s.repo.PricingHistory.FindByScreeningID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pricing history: %w", err)
	}
	acceleration := salesAcceleration(history, sold, screening.EndTime)

	// Nudge beta toward the target last-day sales share.
	betaOpt := clampFloat(screening.Pricing.Beta+0.3*(targetLastDayShare-acceleration), 0.02, betaMax)

	alphaOpt = round2(alphaOpt)
	betaOpt = round2(betaOpt)

	if err := s.repo.Screening.UpdateFactors(ctx, id, alphaOpt, betaOpt); err != nil {
		return nil, fmt.Errorf("persist optimized factors: %w", err)
	}

	rationale := fmt.Sprintf("final fill rate %.2f vs target %.2f moved alpha %.2f -> %.2f; last-day sales share %.2f vs target %.2f moved beta %.2f -> %.2f",
		fill, targetFillRate, screening.Pricing.Alpha, alphaOpt,
		acceleration, targetLastDayShare, screening.Pricing.Beta, betaOpt)

	s.log.Info("Pricing factors optimized",
		zap.String("screening_id", screeningID),
		zap.Float64("fill_rate", fill),
		zap.Float64("sales_acceleration", acceleration),
		zap.Float64("alpha", alphaOpt),
		zap.Float64("beta", betaOpt),
	)

	return &response.FactorOptimizationResponse{
		Alpha:             alphaOpt,
		Beta:              betaOpt,
		FillRate:          fill,
		SalesAcceleration: acceleration,
		Rationale:         rationale,
	}, nil
}

// salesAcceleration returns the fraction of the final sold-seat count that
// sold within the last 24 hours before end, derived from incremental
// snapshot deltas. Zero without history or sales.
func salesAcceleration(history []*entity.PricingSnapshot, finalSold int, end time.Time) float64 {
	if len(history) == 0 || finalSold <= 0 {
		return 0
	}

	windowStart := end.Add(-24 * time.Hour)
	prevSold := 0
	lastDaySold := 0
	for _, snapshot := range history {
		delta := snapshot.SoldSeats - prevSold
		if delta > 0 && !snapshot.CreatedAt.Before(windowStart) && !snapshot.CreatedAt.After(end) {
			lastDaySold += delta
		}
		prevSold = snapshot.SoldSeats
	}

	return float64(lastDaySold) / float64(finalSold)
}
