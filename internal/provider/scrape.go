package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stockval/internal/metrics"
)

// scrapePrice extracts the regular market price from the Yahoo quote page.
// The page streams live prices through fin-streamer elements whose value
// attribute carries the raw figure.
func (c *YahooClient) scrapePrice(ctx context.Context, ticker string) (*float64, error) {
	start := time.Now()
	defer func() {
		metrics.ProviderLatency.WithLabelValues("scrape").Observe(time.Since(start).Seconds())
	}()

	pageURL := fmt.Sprintf("%s/quote/%s", c.scrapeBaseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: quote page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	selector := fmt.Sprintf(`fin-streamer[data-field="regularMarketPrice"][data-symbol=%q]`, ticker)
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		// Older page revisions omit data-symbol on the header streamer.
		node = doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()
	}

	attr, ok := node.Attr("value")
	if !ok {
		attr = node.Text()
	}
	price, err := strconv.ParseFloat(attr, 64)
	if err != nil {
		return nil, fmt.Errorf("yahoo: could not parse scraped price %q", attr)
	}
	return &price, nil
}
