package news

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"marketbrief/internal/model"
)

const (
	fmpStockNewsURL = "https://financialmodelingprep.com/api/v3/stock_news"
	fmpDefaultLimit = 50
)

type FMPClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewFMPClient(apiKey string, httpClient *http.Client) *FMPClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &FMPClient{
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *FMPClient) Source() model.Source {
	return model.SourceFMP
}

func (c *FMPClient) Fetch(ctx context.Context, q Query) (any, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = fmpDefaultLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apikey", c.apiKey)

	return getJSON(ctx, c.httpClient, "fmp", fmpStockNewsURL, params)
}

// Normalize reads a flat list of articles. FMP ships the body as "text";
// "summary" wins when both are present.
func (c *FMPClient) Normalize(raw any) []model.NewsItem {
	return objectItems(c.Source(), raw, "summary", "text")
}
