// Package normalize turns the loosely-typed, partially-missing upstream
// provider record into the immutable inputs the valuation engine consumes.
// Only a missing free-cash-flow series is fatal; every other field degrades
// to a documented default and is flagged as such.
package normalize

import (
	"context"
	"errors"
	"math"
	"sort"

	apperrors "stockval/internal/errors"
	"stockval/internal/metrics"
	"stockval/internal/models"
	"stockval/internal/provider"
)

// Default values applied when an upstream field is missing or not finite.
const (
	DefaultPrice        = 100.0
	DefaultShares       = 1_000_000.0
	DefaultCostOfDebt   = 0.05
	DefaultTaxRate      = 0.21
	DefaultBeta         = 1.0
	DefaultRiskFreeRate = 0.042
)

// Normalizer extracts normalized valuation inputs from the market-data
// provider. It holds no per-request state.
type Normalizer struct {
	data provider.MarketData
}

// New creates a Normalizer backed by the given provider.
func New(data provider.MarketData) *Normalizer {
	return &Normalizer{data: data}
}

// FreeCashFlow fetches the free-cash-flow row for a ticker, drops missing
// and non-finite entries, and returns the series sorted ascending by
// period-end date. Returns ErrNoCashflowData when nothing usable remains.
func (n *Normalizer) FreeCashFlow(ctx context.Context, ticker string) ([]models.FCFPoint, error) {
	cf, err := n.data.CashflowStatement(ctx, ticker)
	if err != nil {
		// Only a confirmed absence of data maps to the 404 taxonomy;
		// transport failures surface to the caller unchanged.
		if errors.Is(err, provider.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNoCashflowData, err)
		}
		return nil, err
	}

	series := make([]models.FCFPoint, 0, len(cf.FreeCashFlow))
	for date, value := range cf.FreeCashFlow {
		if v, ok := finite(value); ok {
			series = append(series, models.FCFPoint{Date: date, Value: v})
		}
	}
	if len(series) == 0 {
		return nil, apperrors.ErrNoCashflowData
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// Extract resolves every quantity the valuation engine needs, applying the
// per-field fallback policy. A failure reading one optional statement never
// suppresses a successfully-read field from another.
func (n *Normalizer) Extract(ctx context.Context, ticker string) (*models.NormalizedInputs, error) {
	series, err := n.FreeCashFlow(ctx, ticker)
	if err != nil {
		return nil, err
	}

	inputs := &models.NormalizedInputs{
		FCFSeries: series,
		Defaulted: make(map[string]bool),
	}

	quote, qErr := n.data.Quote(ctx, ticker)
	if qErr != nil {
		quote = &provider.QuoteData{}
	}

	// The fast-quote path is only hit when the full quote record is
	// missing price or shares; fetch it at most once.
	var fast *provider.FastQuoteData
	fastFetched := false
	fastQuote := func() *provider.FastQuoteData {
		if !fastFetched {
			fastFetched = true
			if fq, err := n.data.FastQuote(ctx, ticker); err == nil {
				fast = fq
			}
		}
		if fast == nil {
			return &provider.FastQuoteData{}
		}
		return fast
	}

	if v, ok := positive(quote.CurrentPrice); ok {
		inputs.CurrentPrice = v
	} else if v, ok := positive(quote.PreviousClose); ok {
		inputs.CurrentPrice = v
	} else if v, ok := positive(fastQuote().Price); ok {
		inputs.CurrentPrice = v
	} else {
		inputs.CurrentPrice = DefaultPrice
		n.fellBack(inputs, "current_price")
	}

	if v, ok := positive(quote.SharesOutstanding); ok {
		inputs.SharesOutstanding = v
	} else if v, ok := positive(quote.ImpliedShares); ok {
		inputs.SharesOutstanding = v
	} else if v, ok := positive(fastQuote().Shares); ok {
		inputs.SharesOutstanding = v
	} else {
		inputs.SharesOutstanding = DefaultShares
		n.fellBack(inputs, "shares_outstanding")
	}

	balance, bErr := n.data.BalanceSheet(ctx, ticker)
	if bErr != nil {
		balance = &provider.BalanceData{}
	}
	if v, ok := finite(balance.TotalCash); ok {
		inputs.TotalCash = v
	} else {
		n.fellBack(inputs, "total_cash")
	}
	if v, ok := finite(balance.TotalDebt); ok {
		inputs.TotalDebt = v
	} else {
		n.fellBack(inputs, "total_debt")
	}

	income, iErr := n.data.IncomeStatement(ctx, ticker)
	if iErr != nil {
		income = &provider.IncomeData{}
	}
	if interest, ok := finite(income.InterestExpense); ok && inputs.TotalDebt > 0 {
		// Yahoo reports interest expense as a negative figure.
		inputs.CostOfDebt = math.Abs(interest) / inputs.TotalDebt
	} else {
		inputs.CostOfDebt = DefaultCostOfDebt
		n.fellBack(inputs, "cost_of_debt")
	}

	pretax, pretaxOK := finite(income.PretaxIncome)
	provision, provisionOK := finite(income.TaxProvision)
	if pretaxOK && pretax > 0 && provisionOK {
		inputs.TaxRate = provision / pretax
	} else {
		inputs.TaxRate = DefaultTaxRate
		n.fellBack(inputs, "tax_rate")
	}

	if v, ok := finite(quote.Beta); ok {
		inputs.Beta = v
	} else {
		inputs.Beta = DefaultBeta
		n.fellBack(inputs, "beta")
	}

	if yield, err := n.data.RiskFreeRate(ctx); err == nil {
		if v, ok := finite(yield); ok {
			inputs.RiskFreeRate = v / 100
		}
	}
	if inputs.RiskFreeRate == 0 {
		inputs.RiskFreeRate = DefaultRiskFreeRate
		n.fellBack(inputs, "risk_free_rate")
	}

	return inputs, nil
}

func (n *Normalizer) fellBack(inputs *models.NormalizedInputs, field string) {
	inputs.Defaulted[field] = true
	metrics.FieldFallbacks.WithLabelValues(field).Inc()
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func positive(v *float64) (float64, bool) {
	f, ok := finite(v)
	return f, ok && f > 0
}
