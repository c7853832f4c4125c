package valuation

import (
	"math"
	"testing"

	"stockval/internal/models"
	"stockval/internal/testutil"
)

func inputsWith(series []models.FCFPoint) *models.NormalizedInputs {
	return &models.NormalizedInputs{
		CurrentPrice:      100,
		SharesOutstanding: 1_000_000,
		TotalCash:         0,
		TotalDebt:         0,
		CostOfDebt:        0.05,
		TaxRate:           0.21,
		Beta:              1.0,
		RiskFreeRate:      0.042,
		FCFSeries:         series,
	}
}

func TestGrowthRate(t *testing.T) {
	engine := NewEngine()

	t.Run("ten_percent_series", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{
			{Date: "2021-12-31", Value: 100},
			{Date: "2022-12-31", Value: 110},
			{Date: "2023-12-31", Value: 121},
		})

		result := engine.Compute(in)
		testutil.AssertInDelta(t, 0.10, result.GrowthRate, 1e-9)
	})

	t.Run("single_point_defaults", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})

		result := engine.Compute(in)
		testutil.AssertInDelta(t, DefaultGrowth, result.GrowthRate, 1e-9)
	})

	t.Run("zero_previous_values_default", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{
			{Date: "2022-12-31", Value: 0},
			{Date: "2023-12-31", Value: 100},
		})

		result := engine.Compute(in)
		testutil.AssertInDelta(t, DefaultGrowth, result.GrowthRate, 1e-9)
	})

	t.Run("clamped_to_lower_bound", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{
			{Date: "2022-12-31", Value: 200},
			{Date: "2023-12-31", Value: 50},
		})

		result := engine.Compute(in)
		testutil.AssertInDelta(t, MinGrowth, result.GrowthRate, 1e-9)
	})

	t.Run("clamped_to_upper_bound", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{
			{Date: "2022-12-31", Value: 50},
			{Date: "2023-12-31", Value: 200},
		})

		result := engine.Compute(in)
		testutil.AssertInDelta(t, MaxGrowth, result.GrowthRate, 1e-9)
	})

	t.Run("negative_values_allowed", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{
			{Date: "2022-12-31", Value: -100},
			{Date: "2023-12-31", Value: -50},
		})

		result := engine.Compute(in)
		if result.GrowthRate < MinGrowth || result.GrowthRate > MaxGrowth {
			t.Errorf("growth rate %v outside [%v, %v]", result.GrowthRate, MinGrowth, MaxGrowth)
		}
	})
}

func TestWACC(t *testing.T) {
	engine := NewEngine()

	t.Run("beta_one_all_equity_equals_market_return", func(t *testing.T) {
		// With beta = 1 and no debt, cost of equity collapses to the
		// assumed market return regardless of the risk-free rate.
		in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		in.Beta = 1.0
		in.TotalDebt = 0

		result := engine.Compute(in)
		testutil.AssertInDelta(t, MarketReturn, result.WACC, 1e-9)
	})

	t.Run("zero_debt_ignores_cost_of_debt_and_tax", func(t *testing.T) {
		base := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		base.TotalDebt = 0

		modified := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		modified.TotalDebt = 0
		modified.CostOfDebt = 0.99
		modified.TaxRate = 0.99

		testutil.AssertInDelta(t, engine.Compute(base).WACC, engine.Compute(modified).WACC, 1e-12)
	})

	t.Run("equal_capital_weights", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		in.CurrentPrice = 100
		in.SharesOutstanding = 10 // market cap 1000
		in.TotalDebt = 1000
		in.CostOfDebt = 0.08
		in.TaxRate = 0.25
		in.Beta = 1.2
		in.RiskFreeRate = 0.04

		costOfEquity := 0.04 + 1.2*(MarketReturn-0.04)
		expected := 0.5*costOfEquity + 0.5*0.08*(1-0.25)

		result := engine.Compute(in)
		testutil.AssertInDelta(t, expected, result.WACC, 1e-9)
	})

	t.Run("clamped_to_floor", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		in.Beta = 0 // cost of equity = risk-free rate, below the floor

		result := engine.Compute(in)
		testutil.AssertInDelta(t, MinWACC, result.WACC, 1e-9)
	})

	t.Run("clamped_to_ceiling", func(t *testing.T) {
		in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
		in.Beta = 10

		result := engine.Compute(in)
		testutil.AssertInDelta(t, MaxWACC, result.WACC, 1e-9)
	})

	t.Run("always_above_perpetual_growth", func(t *testing.T) {
		betas := []float64{-5, -1, 0, 0.5, 1, 2, 10}
		for _, beta := range betas {
			in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
			in.Beta = beta

			result := engine.Compute(in)
			if result.WACC <= PerpetualGrowth {
				t.Errorf("beta %v: WACC %v not above perpetual growth %v", beta, result.WACC, PerpetualGrowth)
			}
			if result.WACC < MinWACC || result.WACC > MaxWACC {
				t.Errorf("beta %v: WACC %v outside [%v, %v]", beta, result.WACC, MinWACC, MaxWACC)
			}
		}
	})
}

func TestTerminalValue(t *testing.T) {
	engine := NewEngine()

	// Beta 1 with zero debt pins WACC at 10%; a single-point series pins
	// growth at the 5% default with lastFcf = 100.
	in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
	in.SharesOutstanding = 1

	result := engine.Compute(in)

	// future_fcf[5] = 100 * 1.05^5 ≈ 127.63
	// terminal = 127.63 * 1.025 / (0.10 - 0.025) ≈ 1744.0
	// pvTerminal = terminal / 1.10^5 ≈ 1083.4
	testutil.AssertInDelta(t, 1744.0, result.TerminalValue, 1744.0*0.01)
	testutil.AssertInDelta(t, 1083.4, result.PVTerminal, 1083.4*0.01)
	testutil.AssertInDelta(t, 435.8, result.PVFCF, 435.8*0.01)
	testutil.AssertInDelta(t, result.PVFCF+result.PVTerminal, result.EnterpriseValue, 1e-9)
}

func TestEquityBridge(t *testing.T) {
	engine := NewEngine()

	base := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
	base.SharesOutstanding = 1

	adjusted := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
	adjusted.SharesOutstanding = 1
	adjusted.TotalCash = 500

	got := engine.Compute(adjusted).IntrinsicValue - engine.Compute(base).IntrinsicValue
	testutil.AssertInDelta(t, 500, got, 1e-6)
}

func TestIntrinsicValueFinite(t *testing.T) {
	engine := NewEngine()

	cases := []struct {
		name   string
		mutate func(*models.NormalizedInputs)
	}{
		{"extreme_beta", func(in *models.NormalizedInputs) { in.Beta = 1e6 }},
		{"negative_beta", func(in *models.NormalizedInputs) { in.Beta = -1e6 }},
		{"huge_debt", func(in *models.NormalizedInputs) { in.TotalDebt = 1e15 }},
		{"negative_fcf", func(in *models.NormalizedInputs) {
			in.FCFSeries = []models.FCFPoint{
				{Date: "2022-12-31", Value: -500},
				{Date: "2023-12-31", Value: -400},
			}
		}},
		{"tiny_shares", func(in *models.NormalizedInputs) { in.SharesOutstanding = 1e-9 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := inputsWith([]models.FCFPoint{{Date: "2023-12-31", Value: 100}})
			tc.mutate(in)

			result := engine.Compute(in)
			if math.IsNaN(result.IntrinsicValue) || math.IsInf(result.IntrinsicValue, 0) {
				t.Errorf("intrinsic value not finite: %v", result.IntrinsicValue)
			}
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	engine := NewEngine()
	in := inputsWith([]models.FCFPoint{
		{Date: "2021-12-31", Value: 90},
		{Date: "2022-12-31", Value: 100},
		{Date: "2023-12-31", Value: 112},
	})

	first := engine.Compute(in)
	second := engine.Compute(in)
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}
