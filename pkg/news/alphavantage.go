package news

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"marketbrief/internal/model"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string, httpClient *http.Client) *AlphaVantageClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *AlphaVantageClient) Source() model.Source {
	return model.SourceAlphaVantage
}

func (c *AlphaVantageClient) Fetch(ctx context.Context, q Query) (any, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	if q.Topic != "" {
		params.Set("topics", q.Topic)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("apikey", c.apiKey)

	return getJSON(ctx, c.httpClient, "alphavantage", alphaVantageURL, params)
}

// Normalize reads articles nested under the "feed" key.
func (c *AlphaVantageClient) Normalize(raw any) []model.NewsItem {
	body, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return objectItems(c.Source(), body["feed"], "summary")
}
