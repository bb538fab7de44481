package news

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"marketbrief/internal/model"
)

func TestPolygonFetch(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		w.Write([]byte(`{"status": "OK", "from": "2023-12-15", "symbol": "AAPL", "open": 197.53, "high": 198.4, "low": 197, "close": 197.57, "volume": 128256700}`))
	}))
	defer srv.Close()

	client := NewPolygonClient("test-key", testClient(srv))

	raw, err := client.Fetch(t.Context(), Query{Ticker: "aapl", Date: time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, nil, err)
	assert.Equal(t, "/v1/open-close/AAPL/2023-12-15", gotPath)
	assert.Equal(t, "test-key", gotKey)

	items := client.Normalize(raw)
	assert.Equal(t, []model.NewsItem{{
		Source:  model.SourcePolygon,
		Title:   "AAPL open/close 2023-12-15",
		Summary: "open 197.53, high 198.4, low 197, close 197.57, volume 128256700",
	}}, items)
}

func TestPolygonNormalizeErrorStatus(t *testing.T) {
	client := NewPolygonClient("k", nil)

	items := client.Normalize(map[string]any{"status": "NOT_FOUND", "message": "Data not found."})

	assert.Equal(t, 0, len(items))
}

func TestPreviousWeekday(t *testing.T) {
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.Equal(t, time.Friday, previousWeekday(monday).Weekday())
	assert.Equal(t, time.Monday, previousWeekday(tuesday).Weekday())
}
