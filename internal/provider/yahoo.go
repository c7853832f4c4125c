package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockval/internal/metrics"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// YahooClient implements MarketData against the public Yahoo Finance JSON
// endpoints (quoteSummary v10, quote v7, search v1, chart v8), with an HTML
// scrape of the quote page as a last-resort price fallback.
type YahooClient struct {
	baseURL        string
	scrapeBaseURL  string
	riskFreeSymbol string
	httpClient     *http.Client
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient(baseURL, scrapeBaseURL, riskFreeSymbol string, timeout time.Duration) *YahooClient {
	return &YahooClient{
		baseURL:        baseURL,
		scrapeBaseURL:  scrapeBaseURL,
		riskFreeSymbol: riskFreeSymbol,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

var _ MarketData = (*YahooClient)(nil)

// rawValue is Yahoo's numeric envelope: {"raw": 123.4, "fmt": "123.40"}.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  any                  `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	CashflowStatementHistory *struct {
		CashflowStatements []struct {
			EndDate                          rawValue  `json:"endDate"`
			TotalCashFromOperatingActivities *rawValue `json:"totalCashFromOperatingActivities"`
			CapitalExpenditures              *rawValue `json:"capitalExpenditures"`
		} `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`

	BalanceSheetHistory *struct {
		BalanceSheetStatements []struct {
			EndDate           rawValue  `json:"endDate"`
			Cash              *rawValue `json:"cash"`
			ShortLongTermDebt *rawValue `json:"shortLongTermDebt"`
			LongTermDebt      *rawValue `json:"longTermDebt"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`

	IncomeStatementHistory *struct {
		IncomeStatementHistory []struct {
			EndDate          rawValue  `json:"endDate"`
			InterestExpense  *rawValue `json:"interestExpense"`
			IncomeTaxExpense *rawValue `json:"incomeTaxExpense"`
			IncomeBeforeTax  *rawValue `json:"incomeBeforeTax"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	Price *struct {
		RegularMarketPrice         *rawValue `json:"regularMarketPrice"`
		RegularMarketPreviousClose *rawValue `json:"regularMarketPreviousClose"`
	} `json:"price"`

	SummaryDetail *struct {
		Beta *rawValue `json:"beta"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics *struct {
		SharesOutstanding        *rawValue `json:"sharesOutstanding"`
		ImpliedSharesOutstanding *rawValue `json:"impliedSharesOutstanding"`
		Beta                     *rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
			SharesOutstanding  *float64 `json:"sharesOutstanding"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// CashflowStatement returns the free-cash-flow row keyed by period-end date.
// The row is derived the same way yfinance derives it: operating cash flow
// plus capital expenditures (Yahoo reports capex as a negative figure).
func (c *YahooClient) CashflowStatement(ctx context.Context, ticker string) (*CashflowData, error) {
	result, err := c.quoteSummary(ctx, ticker, "cashflowStatementHistory")
	if err != nil {
		return nil, err
	}
	if result.CashflowStatementHistory == nil {
		return nil, fmt.Errorf("yahoo: no cashflow statement for %s: %w", ticker, ErrNotFound)
	}

	fcf := make(map[string]*float64)
	for _, stmt := range result.CashflowStatementHistory.CashflowStatements {
		date := stmt.EndDate.Fmt
		if date == "" {
			continue
		}
		if stmt.TotalCashFromOperatingActivities == nil || stmt.TotalCashFromOperatingActivities.Raw == nil {
			fcf[date] = nil
			continue
		}
		value := *stmt.TotalCashFromOperatingActivities.Raw
		if stmt.CapitalExpenditures != nil && stmt.CapitalExpenditures.Raw != nil {
			value += *stmt.CapitalExpenditures.Raw
		}
		v := value
		fcf[date] = &v
	}
	return &CashflowData{FreeCashFlow: fcf}, nil
}

// BalanceSheet returns the most recent balance-sheet snapshot.
func (c *YahooClient) BalanceSheet(ctx context.Context, ticker string) (*BalanceData, error) {
	result, err := c.quoteSummary(ctx, ticker, "balanceSheetHistory")
	if err != nil {
		return nil, err
	}
	if result.BalanceSheetHistory == nil || len(result.BalanceSheetHistory.BalanceSheetStatements) == 0 {
		return nil, fmt.Errorf("yahoo: no balance sheet for %s: %w", ticker, ErrNotFound)
	}

	// Statements are returned most recent first.
	latest := result.BalanceSheetHistory.BalanceSheetStatements[0]
	data := &BalanceData{TotalCash: raw(latest.Cash)}

	short := raw(latest.ShortLongTermDebt)
	long := raw(latest.LongTermDebt)
	if short != nil || long != nil {
		total := deref(short) + deref(long)
		data.TotalDebt = &total
	}
	return data, nil
}

// IncomeStatement returns the latest income-statement figures.
func (c *YahooClient) IncomeStatement(ctx context.Context, ticker string) (*IncomeData, error) {
	result, err := c.quoteSummary(ctx, ticker, "incomeStatementHistory")
	if err != nil {
		return nil, err
	}
	if result.IncomeStatementHistory == nil || len(result.IncomeStatementHistory.IncomeStatementHistory) == 0 {
		return nil, fmt.Errorf("yahoo: no income statement for %s: %w", ticker, ErrNotFound)
	}

	latest := result.IncomeStatementHistory.IncomeStatementHistory[0]
	return &IncomeData{
		InterestExpense: raw(latest.InterestExpense),
		TaxProvision:    raw(latest.IncomeTaxExpense),
		PretaxIncome:    raw(latest.IncomeBeforeTax),
	}, nil
}

// Quote returns the full quote/info record for a ticker.
func (c *YahooClient) Quote(ctx context.Context, ticker string) (*QuoteData, error) {
	result, err := c.quoteSummary(ctx, ticker, "price,summaryDetail,defaultKeyStatistics")
	if err != nil {
		return nil, err
	}

	data := &QuoteData{}
	if result.Price != nil {
		data.CurrentPrice = raw(result.Price.RegularMarketPrice)
		data.PreviousClose = raw(result.Price.RegularMarketPreviousClose)
	}
	if result.SummaryDetail != nil {
		data.Beta = raw(result.SummaryDetail.Beta)
	}
	if result.DefaultKeyStatistics != nil {
		data.SharesOutstanding = raw(result.DefaultKeyStatistics.SharesOutstanding)
		data.ImpliedShares = raw(result.DefaultKeyStatistics.ImpliedSharesOutstanding)
		if data.Beta == nil {
			data.Beta = raw(result.DefaultKeyStatistics.Beta)
		}
	}
	return data, nil
}

// FastQuote returns price and shares via the lightweight v7 quote endpoint,
// falling back to scraping the quote page for the price when that fails.
func (c *YahooClient) FastQuote(ctx context.Context, ticker string) (*FastQuoteData, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(ticker))

	var resp quoteResponse
	if err := c.getJSON(ctx, "quote", endpoint, &resp); err == nil && len(resp.QuoteResponse.Result) > 0 {
		r := resp.QuoteResponse.Result[0]
		return &FastQuoteData{Price: r.RegularMarketPrice, Shares: r.SharesOutstanding}, nil
	}

	price, err := c.scrapePrice(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("yahoo: fast quote for %s: %w", ticker, err)
	}
	return &FastQuoteData{Price: price}, nil
}

// Search performs a free-text ticker search, filtered to equity, ETF and
// mutual-fund quote types.
func (c *YahooClient) Search(ctx context.Context, query string) ([]SearchHit, error) {
	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0", c.baseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := c.getJSON(ctx, "search", endpoint, &resp); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		switch q.QuoteType {
		case "EQUITY", "ETF", "MUTUALFUND":
		default:
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		hits = append(hits, SearchHit{Symbol: q.Symbol, Name: name, QuoteType: q.QuoteType})
	}
	return hits, nil
}

// RiskFreeRate quotes the configured treasury-yield proxy symbol via the
// chart endpoint and returns the yield in percent units.
func (c *YahooClient) RiskFreeRate(ctx context.Context) (*float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", c.baseURL, url.QueryEscape(c.riskFreeSymbol))

	var resp chartResponse
	if err := c.getJSON(ctx, "chart", endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no chart data for %s: %w", c.riskFreeSymbol, ErrNotFound)
	}
	return resp.Chart.Result[0].Meta.RegularMarketPrice, nil
}

func (c *YahooClient) quoteSummary(ctx context.Context, ticker, modules string) (*quoteSummaryResult, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(modules))

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, "quoteSummary", endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty quoteSummary for %s: %w", ticker, ErrNotFound)
	}
	return &resp.QuoteSummary.Result[0], nil
}

func (c *YahooClient) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	start := time.Now()
	defer func() {
		metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func raw(v *rawValue) *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
