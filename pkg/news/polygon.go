package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketbrief/internal/model"
)

const polygonOpenCloseURL = "https://api.polygon.io/v1/open-close"

type PolygonClient struct {
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewPolygonClient(apiKey string, httpClient *http.Client) *PolygonClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &PolygonClient{
		apiKey:     apiKey,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *PolygonClient) Source() model.Source {
	return model.SourcePolygon
}

// Fetch asks for the daily open/close of q.Date, defaulting to the last
// weekday before today.
func (c *PolygonClient) Fetch(ctx context.Context, q Query) (any, error) {
	date := q.Date
	if date.IsZero() {
		date = previousWeekday(c.now())
	}

	endpoint := fmt.Sprintf("%s/%s/%s", polygonOpenCloseURL, url.PathEscape(strings.ToUpper(q.Ticker)), date.Format(time.DateOnly))

	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	return getJSON(ctx, c.httpClient, "polygon", endpoint, params)
}

func (c *PolygonClient) Normalize(raw any) []model.NewsItem {
	body, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if status := text(body["status"]); status != "" && status != "OK" {
		return nil
	}

	title := ""
	if symbol := text(body["symbol"]); symbol != "" {
		title = strings.TrimSpace(symbol + " open/close " + text(body["from"]))
	}

	var parts []string
	for _, key := range []string{"open", "high", "low", "close", "volume"} {
		if v := text(body[key]); v != "" {
			parts = append(parts, key+" "+v)
		}
	}

	return []model.NewsItem{model.NewItem(c.Source(), title, strings.Join(parts, ", "))}
}

func previousWeekday(t time.Time) time.Time {
	d := t.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
