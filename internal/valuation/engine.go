// Package valuation implements the discounted-cash-flow model: CAPM cost of
// equity, WACC derivation, growth estimation, a five-year projection, and a
// Gordon-growth terminal value discounted back to a per-share figure.
package valuation

import (
	"math"

	"stockval/internal/models"
)

// Model constants. The expected market return is a fixed assumption of the
// CAPM step; the clamps keep noisy upstream data from producing a degenerate
// discount rate or growth path.
const (
	ProjectionYears = 5
	MarketReturn    = 0.10
	PerpetualGrowth = 0.025

	MinWACC = 0.06
	MaxWACC = 0.15

	MinGrowth     = 0.02
	MaxGrowth     = 0.15
	DefaultGrowth = 0.05
)

// Result holds the unrounded outputs of a valuation computation, including
// the intermediate present values for diagnostics.
type Result struct {
	IntrinsicValue  float64
	GrowthRate      float64
	WACC            float64
	CostOfEquity    float64
	Beta            float64
	PVFCF           float64
	PVTerminal      float64
	TerminalValue   float64
	EnterpriseValue float64
}

// Engine computes intrinsic values. It is stateless; Compute is a pure
// function of its inputs.
type Engine struct{}

// NewEngine creates a valuation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute runs the DCF model over normalized inputs. It performs no I/O and
// is deterministic for a given input.
func (e *Engine) Compute(in *models.NormalizedInputs) Result {
	marketCap := in.CurrentPrice * in.SharesOutstanding

	// Cost of equity via CAPM.
	costOfEquity := in.RiskFreeRate + in.Beta*(MarketReturn-in.RiskFreeRate)

	// Capital weights. An empty capital base degenerates to all-equity.
	totalCapital := marketCap + in.TotalDebt
	weightEquity, weightDebt := 1.0, 0.0
	if totalCapital > 0 {
		weightEquity = marketCap / totalCapital
		weightDebt = in.TotalDebt / totalCapital
	}

	wacc := weightEquity*costOfEquity + weightDebt*in.CostOfDebt*(1-in.TaxRate)
	wacc = clamp(wacc, MinWACC, MaxWACC)

	growth := clamp(e.growthRate(in.FCFSeries), MinGrowth, MaxGrowth)

	// Guard against a non-positive terminal-value denominator. The WACC
	// floor already exceeds the perpetual growth rate, so this only fires
	// on pathological inputs.
	if wacc <= PerpetualGrowth {
		wacc = PerpetualGrowth + 0.01
	}

	lastFCF := in.FCFSeries[len(in.FCFSeries)-1].Value

	var pvFCF float64
	projected := lastFCF
	for year := 1; year <= ProjectionYears; year++ {
		projected = lastFCF * math.Pow(1+growth, float64(year))
		pvFCF += projected / math.Pow(1+wacc, float64(year))
	}

	terminalValue := projected * (1 + PerpetualGrowth) / (wacc - PerpetualGrowth)
	pvTerminal := terminalValue / math.Pow(1+wacc, ProjectionYears)

	enterpriseValue := pvFCF + pvTerminal
	equityValue := enterpriseValue + in.TotalCash - in.TotalDebt

	intrinsic := 0.0
	if in.SharesOutstanding > 0 {
		intrinsic = equityValue / in.SharesOutstanding
	}

	return Result{
		IntrinsicValue:  intrinsic,
		GrowthRate:      growth,
		WACC:            wacc,
		CostOfEquity:    costOfEquity,
		Beta:            in.Beta,
		PVFCF:           pvFCF,
		PVTerminal:      pvTerminal,
		TerminalValue:   terminalValue,
		EnterpriseValue: enterpriseValue,
	}
}

// growthRate estimates growth as the mean period-over-period change across
// the series. Fewer than two points, or a non-finite mean, defaults to 5%.
func (e *Engine) growthRate(series []models.FCFPoint) float64 {
	if len(series) < 2 {
		return DefaultGrowth
	}

	var sum float64
	var count int
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Value
		if prev == 0 {
			continue
		}
		sum += series[i].Value/prev - 1
		count++
	}
	if count == 0 {
		return DefaultGrowth
	}

	mean := sum / float64(count)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return DefaultGrowth
	}
	return mean
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
