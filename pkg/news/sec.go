package news

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"marketbrief/internal/model"
)

const (
	secBrowseURL        = "https://www.sec.gov/cgi-bin/browse-edgar"
	secFilingType       = "10-K"
	secDefaultUserAgent = "marketbrief research contact@example.com"
	maxRawTextChars     = 4000
)

// SECClient pulls the EDGAR company filing feed. EDGAR rejects requests
// without a descriptive User-Agent.
type SECClient struct {
	apiKey     string
	userAgent  string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewSECClient(apiKey, userAgent string, httpClient *http.Client) *SECClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if userAgent == "" {
		userAgent = secDefaultUserAgent
	}
	return &SECClient{
		apiKey:     apiKey,
		userAgent:  userAgent,
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
	}
}

func (c *SECClient) Source() model.Source {
	return model.SourceSEC
}

// Fetch returns the raw Atom document as a string.
func (c *SECClient) Fetch(ctx context.Context, q Query) (any, error) {
	params := url.Values{}
	params.Set("action", "getcompany")
	params.Set("cik", q.CIK)
	params.Set("type", secFilingType)
	params.Set("output", "atom")
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	header.Set("Accept", "application/atom+xml")

	body, err := get(ctx, c.httpClient, "sec", secBrowseURL, params, header)
	if err != nil {
		return nil, err
	}
	return string(body), nil
}

// Normalize yields one item per Atom entry. Text that is not a feed is
// passed through as a single item.
func (c *SECClient) Normalize(raw any) []model.NewsItem {
	doc, ok := raw.(string)
	if !ok {
		return nil
	}
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	feed, err := c.parser.ParseString(doc)
	if err != nil {
		return []model.NewsItem{model.NewItem(c.Source(), "", truncate(plainText(doc), maxRawTextChars))}
	}

	items := make([]model.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		items = append(items, model.NewItem(c.Source(), strings.TrimSpace(entry.Title), plainText(summary)))
	}
	return items
}

// plainText drops markup from EDGAR's html summaries.
func plainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
