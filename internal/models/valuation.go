// Package models defines the value objects exchanged between the provider,
// the normalizer, the valuation engine, and the HTTP layer. All of them are
// created once per request and never mutated afterwards.
package models

import (
	"fmt"
	"math"
)

// FCFPoint is a single free-cash-flow observation, keyed by the period-end
// date in YYYY-MM-DD form. Values may be negative.
type FCFPoint struct {
	Date  string
	Value float64
}

// NormalizedInputs holds the cleaned financial quantities the valuation
// engine consumes. Every field has already been resolved to a finite value;
// Defaulted records which fields fell back to their documented default.
type NormalizedInputs struct {
	CurrentPrice      float64
	SharesOutstanding float64
	TotalCash         float64
	TotalDebt         float64
	CostOfDebt        float64
	TaxRate           float64
	Beta              float64
	RiskFreeRate      float64
	FCFSeries         []FCFPoint

	Defaulted map[string]bool
}

// FellBack reports whether the named field was resolved from its default
// rather than from upstream data.
func (n *NormalizedInputs) FellBack(field string) bool {
	return n.Defaulted[field]
}

// Assumptions is the set of model parameters behind a valuation, rendered as
// two-decimal percentage strings at the response boundary.
type Assumptions struct {
	ProjectedGrowthRate string  `json:"projected_growth_rate"`
	WACC                string  `json:"wacc"`
	PerpetualGrowth     string  `json:"perpetual_growth"`
	BetaUsed            float64 `json:"beta_used"`
}

// ValuationResult is the response payload for a valuation request.
type ValuationResult struct {
	Ticker         string      `json:"ticker"`
	CurrentPrice   float64     `json:"current_price"`
	IntrinsicValue float64     `json:"intrinsic_value"`
	Assumptions    Assumptions `json:"assumptions"`
}

// SearchResult is a single ticker-search candidate.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent renders a fractional rate as a two-decimal percentage string,
// e.g. 0.085 -> "8.50%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
