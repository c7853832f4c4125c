package services

import (
	"context"
	"errors"

	apperrors "stockval/internal/errors"
	"stockval/internal/logger"
	"stockval/internal/metrics"
	"stockval/internal/models"
	"stockval/internal/normalize"
	"stockval/internal/provider"
	"stockval/internal/valuation"
)

// maxSearchResults caps the number of candidates returned per search.
const maxSearchResults = 6

// valuationService orchestrates extraction and valuation. It holds no
// per-request state; every call works on fresh instances.
type valuationService struct {
	data       provider.MarketData
	normalizer *normalize.Normalizer
	engine     *valuation.Engine
}

// NewValuationService creates a ValuationServicer backed by the given
// market-data provider.
func NewValuationService(data provider.MarketData) ValuationServicer {
	return &valuationService{
		data:       data,
		normalizer: normalize.New(data),
		engine:     valuation.NewEngine(),
	}
}

// FreeCashFlow returns the filtered historical free-cash-flow series.
func (s *valuationService) FreeCashFlow(ctx context.Context, ticker string) (map[string]float64, error) {
	series, err := s.normalizer.FreeCashFlow(ctx, ticker)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(series))
	for _, point := range series {
		out[point.Date] = point.Value
	}
	return out, nil
}

// Valuate extracts normalized inputs and runs the DCF model. NotFound
// conditions pass through unchanged; any other failure is logged with the
// ticker and surfaced as a calculation failure.
func (s *valuationService) Valuate(ctx context.Context, ticker string) (*models.ValuationResult, error) {
	inputs, err := s.normalizer.Extract(ctx, ticker)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			metrics.Valuations.WithLabelValues("no_data").Inc()
			return nil, err
		}
		metrics.Valuations.WithLabelValues("error").Inc()
		logger.Get().Errorw("valuation extraction failed", "ticker", ticker, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}

	result := s.engine.Compute(inputs)
	metrics.Valuations.WithLabelValues("ok").Inc()

	return &models.ValuationResult{
		Ticker:         ticker,
		CurrentPrice:   models.Round2(inputs.CurrentPrice),
		IntrinsicValue: models.Round2(result.IntrinsicValue),
		Assumptions: models.Assumptions{
			ProjectedGrowthRate: models.Percent(result.GrowthRate),
			WACC:                models.Percent(result.WACC),
			PerpetualGrowth:     models.Percent(valuation.PerpetualGrowth),
			BetaUsed:            result.Beta,
		},
	}, nil
}

// Search returns up to maxSearchResults ticker candidates. Provider failures
// are logged and degrade to an empty list, never an error.
func (s *valuationService) Search(ctx context.Context, query string) []models.SearchResult {
	hits, err := s.data.Search(ctx, query)
	if err != nil {
		logger.Get().Warnw("ticker search failed", "query", query, "error", err)
		return []models.SearchResult{}
	}

	results := make([]models.SearchResult, 0, maxSearchResults)
	for _, hit := range hits {
		if len(results) == maxSearchResults {
			break
		}
		results = append(results, models.SearchResult{Symbol: hit.Symbol, Name: hit.Name})
	}
	return results
}
