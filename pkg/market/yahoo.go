package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketbrief/internal/model"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUserAgent  = "Mozilla/5.0 (compatible; marketbrief/1.0)"
	defaultInterval = "1d"
)

var (
	ErrTickerNotFound = errors.New("market: ticker not found")

	DefaultStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type YahooClient struct {
	httpClient *http.Client
}

func NewYahooClient(httpClient *http.Client) *YahooClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &YahooClient{httpClient: httpClient}
}

// DailyCandles returns daily bars between start and end inclusive. Zero
// times fall back to the default range.
func (c *YahooClient) DailyCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error) {
	if start.IsZero() {
		start = DefaultStart
	}
	if end.IsZero() {
		end = DefaultEnd
	}
	symbol := strings.ToUpper(strings.TrimSpace(ticker))

	params := url.Values{}
	params.Set("period1", fmt.Sprint(start.Unix()))
	params.Set("period2", fmt.Sprint(end.AddDate(0, 0, 1).Unix()))
	params.Set("interval", defaultInterval)
	endpoint := fmt.Sprintf("%s/%s?%s", yahooChartURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart read: %w", err)
	}

	var body yfChartResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: status %d: %w", symbol, resp.StatusCode, err)
	}
	if body.Chart.Error != nil {
		if body.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
		}
		return nil, fmt.Errorf("yahoo chart error: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	return parseCandles(body.Chart.Result[0]), nil
}

// parseCandles drops bars without a close; Yahoo emits nulls for halted days.
func parseCandles(result yfChartResult) []model.Candle {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	candles := make([]model.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := model.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}
