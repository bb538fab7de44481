package news

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"marketbrief/internal/model"
)

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}

func testClient(srv *httptest.Server) *http.Client {
	client := srv.Client()
	client.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}
	return client
}

func allProviders() []Provider {
	return []Provider{
		NewAlphaVantageClient("k", nil),
		NewFMPClient("k", nil),
		NewSECClient("k", "", nil),
		NewSimfinClient("k", nil),
		NewFinnhubClient("k", nil),
		NewPolygonClient("k", nil),
	}
}

func TestNormalizeMalformedYieldsNoItems(t *testing.T) {
	inputs := []any{nil, 42.0, true, []int{1, 2}}

	for _, p := range allProviders() {
		for _, in := range inputs {
			items := p.Normalize(in)
			assert.Equal(t, 0, len(items))
		}
	}
}

func TestNormalizeStringYieldsNoItemsForJSONProviders(t *testing.T) {
	for _, p := range allProviders() {
		if p.Source() == model.SourceSEC {
			continue
		}
		assert.Equal(t, 0, len(p.Normalize("not json")))
	}
}

func TestNormalizeSkipsNonObjectEntries(t *testing.T) {
	av := NewAlphaVantageClient("k", nil)
	raw := map[string]any{
		"feed": []any{"junk", 3.0, map[string]any{"title": "Kept"}, nil},
	}

	items := av.Normalize(raw)

	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Kept", items[0].Title)
	assert.Equal(t, model.NoSummary, items[0].Summary)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(model.Source("reuters"), Settings{})
	assert.NotEqual(t, nil, err)
}

func TestBuildKeepsOrder(t *testing.T) {
	providers, err := Build([]Spec{
		{Source: model.SourcePolygon},
		{Source: model.SourceAlphaVantage},
		{Source: model.SourceSEC},
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(providers))
	assert.Equal(t, model.SourcePolygon, providers[0].Source())
	assert.Equal(t, model.SourceAlphaVantage, providers[1].Source())
	assert.Equal(t, model.SourceSEC, providers[2].Source())
}

func TestGetRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewFMPClient("test-key", testClient(srv))
	raw, err := client.Fetch(t.Context(), Query{})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, nil, raw)
}

func TestGetRejectsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	client := NewSimfinClient("test-key", testClient(srv))
	_, err := client.Fetch(t.Context(), Query{Ticker: "AAPL"})

	assert.NotEqual(t, nil, err)
}
