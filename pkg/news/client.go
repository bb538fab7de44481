package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketbrief/internal/model"
)

var ErrUnknownProvider = errors.New("news: unknown provider")

type Query struct {
	Ticker string
	CIK    string
	Topic  string
	Date   time.Time
	Limit  int
}

// Provider fetches one upstream payload and flattens it into news items.
// Fetch returns the decoded body as-is; Normalize must tolerate any shape.
type Provider interface {
	Source() model.Source
	Fetch(ctx context.Context, q Query) (any, error)
	Normalize(raw any) []model.NewsItem
}

type Settings struct {
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

type Spec struct {
	Source model.Source
	Settings
}

var constructors = map[model.Source]func(Settings) Provider{
	model.SourceAlphaVantage: func(s Settings) Provider { return NewAlphaVantageClient(s.APIKey, s.HTTPClient) },
	model.SourceFMP:          func(s Settings) Provider { return NewFMPClient(s.APIKey, s.HTTPClient) },
	model.SourceSEC:          func(s Settings) Provider { return NewSECClient(s.APIKey, s.UserAgent, s.HTTPClient) },
	model.SourceSimfin:       func(s Settings) Provider { return NewSimfinClient(s.APIKey, s.HTTPClient) },
	model.SourceFinnhub:      func(s Settings) Provider { return NewFinnhubClient(s.APIKey, s.HTTPClient) },
	model.SourcePolygon:      func(s Settings) Provider { return NewPolygonClient(s.APIKey, s.HTTPClient) },
}

func New(source model.Source, s Settings) (Provider, error) {
	build, ok := constructors[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, source)
	}
	if s.HTTPClient == nil {
		s.HTTPClient = defaultHTTPClient()
	}
	return build(s), nil
}

// Build constructs providers in the order given; that order is the prompt order.
func Build(specs []Spec) ([]Provider, error) {
	providers := make([]Provider, 0, len(specs))
	for _, spec := range specs {
		p, err := New(spec.Source, spec.Settings)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func get(ctx context.Context, c *http.Client, name, endpoint string, params url.Values, header http.Header) ([]byte, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", name, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s fetch: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read: %w", name, err)
	}
	return body, nil
}

func getJSON(ctx context.Context, c *http.Client, name, endpoint string, params url.Values) (any, error) {
	body, err := get(ctx, c, name, endpoint, params, nil)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s decode: %w", name, err)
	}
	return raw, nil
}

// objectItems turns a JSON array of objects into items, skipping anything
// that is not an object.
func objectItems(source model.Source, list any, summaryKeys ...string) []model.NewsItem {
	entries, ok := list.([]any)
	if !ok {
		return nil
	}

	items := make([]model.NewsItem, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, model.NewItem(source, field(obj, "title"), field(obj, summaryKeys...)))
	}
	return items
}

// field returns the first non-empty value among keys, rendered as text.
func field(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := text(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
