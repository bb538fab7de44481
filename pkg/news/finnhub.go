package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"marketbrief/internal/model"
)

type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

type finnhubQuote struct {
	Symbol string
	Quote  finnhub.Quote
}

func NewFinnhubClient(apiKey string, httpClient *http.Client) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnhubClient{client: client}
}

func (c *FinnhubClient) Source() model.Source {
	return model.SourceFinnhub
}

func (c *FinnhubClient) Fetch(ctx context.Context, q Query) (any, error) {
	res, _, err := c.client.Quote(ctx).Symbol(q.Ticker).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}
	return finnhubQuote{Symbol: strings.ToUpper(q.Ticker), Quote: res}, nil
}

func (c *FinnhubClient) Normalize(raw any) []model.NewsItem {
	q, ok := raw.(finnhubQuote)
	if !ok {
		return nil
	}

	title := ""
	if q.Symbol != "" {
		title = q.Symbol + " quote"
	}

	current := q.Quote.GetC()
	prevClose := q.Quote.GetPc()
	summary := fmt.Sprintf("current %.2f, open %.2f, high %.2f, low %.2f, previous close %.2f",
		current, q.Quote.GetO(), q.Quote.GetH(), q.Quote.GetL(), prevClose)
	if prevClose != 0 {
		change := current - prevClose
		summary += fmt.Sprintf(", change %+.2f (%+.2f%%)", change, change/prevClose*100)
	}

	return []model.NewsItem{model.NewItem(c.Source(), title, summary)}
}
