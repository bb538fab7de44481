package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"marketbrief/internal/model"
)

const simfinCompaniesURL = "https://simfin.com/api/v1/companies"

type SimfinClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewSimfinClient(apiKey string, httpClient *http.Client) *SimfinClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &SimfinClient{
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *SimfinClient) Source() model.Source {
	return model.SourceSimfin
}

func (c *SimfinClient) Fetch(ctx context.Context, q Query) (any, error) {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("ticker", q.Ticker)

	return getJSON(ctx, c.httpClient, "simfin", simfinCompaniesURL, params)
}

// Normalize accepts a single company object or a list of them. The company
// record has no prose, so the compact JSON stands in as the summary.
func (c *SimfinClient) Normalize(raw any) []model.NewsItem {
	var entries []any
	switch v := raw.(type) {
	case map[string]any:
		entries = []any{v}
	case []any:
		entries = v
	default:
		return nil
	}

	items := make([]model.NewsItem, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		summary, err := json.Marshal(obj)
		if err != nil {
			continue
		}
		items = append(items, model.NewItem(c.Source(), field(obj, "name", "companyName", "ticker"), string(summary)))
	}
	return items
}
