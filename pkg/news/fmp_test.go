package news

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"marketbrief/internal/model"
)

func TestFMPFetch(t *testing.T) {
	var gotLimit, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		gotKey = r.URL.Query().Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol": "AAPL", "title": "Apple ships", "text": "Apple shipped a thing."},
			{"symbol": "MSFT", "title": "Microsoft rallies", "summary": "Short", "text": "Long body"},
			"noise",
			{"symbol": "NVDA"}
		]`))
	}))
	defer srv.Close()

	client := NewFMPClient("test-key", testClient(srv))

	raw, err := client.Fetch(t.Context(), Query{})
	assert.Equal(t, nil, err)
	assert.Equal(t, "50", gotLimit)
	assert.Equal(t, "test-key", gotKey)

	items := client.Normalize(raw)
	assert.Equal(t, []model.NewsItem{
		{Source: model.SourceFMP, Title: "Apple ships", Summary: "Apple shipped a thing."},
		{Source: model.SourceFMP, Title: "Microsoft rallies", Summary: "Short"},
		{Source: model.SourceFMP, Title: model.NoTitle, Summary: model.NoSummary},
	}, items)
}

func TestFMPNormalizeObjectIsMalformed(t *testing.T) {
	client := NewFMPClient("k", nil)

	items := client.Normalize(map[string]any{"Error Message": "Invalid API KEY"})

	assert.Equal(t, 0, len(items))
}
