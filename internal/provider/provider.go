// Package provider defines the outbound market-data capability and its Yahoo
// Finance implementation. Every upstream field is optional: callers must
// treat nil pointers as missing data and resolve their own defaults.
package provider

import (
	"context"
	"errors"
)

// ErrNotFound reports that the provider responded but has no data of the
// requested kind for the ticker. Transport failures (network errors,
// unexpected statuses, malformed bodies) are returned as-is and do not
// match this sentinel.
var ErrNotFound = errors.New("provider: data not found")

// CashflowData holds the precomputed free-cash-flow row of the cash-flow
// statement, keyed by period-end date (YYYY-MM-DD).
type CashflowData struct {
	FreeCashFlow map[string]*float64
}

// BalanceData is the most recent balance-sheet snapshot.
type BalanceData struct {
	TotalCash *float64
	TotalDebt *float64
}

// IncomeData holds the income-statement figures the valuation model needs.
type IncomeData struct {
	InterestExpense *float64
	TaxProvision    *float64
	PretaxIncome    *float64
}

// QuoteData is the full quote/info record for a ticker.
type QuoteData struct {
	CurrentPrice      *float64
	PreviousClose     *float64
	SharesOutstanding *float64
	ImpliedShares     *float64
	Beta              *float64
}

// FastQuoteData is the lightweight quote fallback path.
type FastQuoteData struct {
	Price  *float64
	Shares *float64
}

// SearchHit is a single candidate from the free-text ticker search.
type SearchHit struct {
	Symbol    string
	Name      string
	QuoteType string
}

// MarketData is the external data-provider capability. Any method may fail
// or return partially-populated data; the normalizer decides per field
// whether to fall back to a default or to abort the request.
type MarketData interface {
	CashflowStatement(ctx context.Context, ticker string) (*CashflowData, error)
	BalanceSheet(ctx context.Context, ticker string) (*BalanceData, error)
	IncomeStatement(ctx context.Context, ticker string) (*IncomeData, error)
	Quote(ctx context.Context, ticker string) (*QuoteData, error)
	FastQuote(ctx context.Context, ticker string) (*FastQuoteData, error)
	Search(ctx context.Context, query string) ([]SearchHit, error)

	// RiskFreeRate returns the 10-year treasury yield proxy in percent
	// units (e.g. 4.2 for 4.2%).
	RiskFreeRate(ctx context.Context) (*float64, error)
}
