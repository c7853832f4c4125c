package services

import (
	"context"

	"stockval/internal/models"
)

// ValuationServicer defines the valuation business-logic operations.
type ValuationServicer interface {
	// FreeCashFlow returns the historical free-cash-flow series for a
	// ticker keyed by period-end date.
	FreeCashFlow(ctx context.Context, ticker string) (map[string]float64, error)

	// Valuate computes the intrinsic per-share value for a ticker.
	Valuate(ctx context.Context, ticker string) (*models.ValuationResult, error)

	// Search looks up ticker candidates for a free-text query. It never
	// fails: provider errors degrade to an empty result list.
	Search(ctx context.Context, query string) []models.SearchResult
}
