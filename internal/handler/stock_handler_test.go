package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"marketbrief/internal/model"
	"marketbrief/pkg/market"
)

type fakeCandles struct {
	candles    []model.Candle
	err        error
	start, end time.Time
	ticker     string
}

func (f *fakeCandles) DailyCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error) {
	f.ticker, f.start, f.end = ticker, start, end
	return f.candles, f.err
}

func newTestStockRouter(src CandleSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStockHandler(src)
	r.GET("/stock/:ticker", h.GetStock)
	r.GET("/stock/:ticker/chart.svg", h.GetStockChart)
	return r
}

func sampleCandles() []model.Candle {
	return []model.Candle{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 187.15, High: 188.44, Low: 183.89, Close: 185.64, Volume: 82488700},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, Volume: 58414500},
	}
}

func TestGetStock_DefaultRange(t *testing.T) {
	src := &fakeCandles{candles: sampleCandles()}
	r := newTestStockRouter(src)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stock/aapl", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AAPL", src.ticker)
	assert.Equal(t, market.DefaultStart, src.start)
	assert.Equal(t, market.DefaultEnd, src.end)

	var res StockResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "2023-01-01", res.Start)
	assert.Equal(t, "2024-12-31", res.End)
	assert.Equal(t, 2, len(res.Candles))
	assert.Equal(t, 185.64, res.Candles[0].Close)
}

func TestGetStock_BadRange(t *testing.T) {
	r := newTestStockRouter(&fakeCandles{})

	for _, q := range []string{"start=yesterday", "end=2024-13-01", "start=2024-06-01&end=2024-01-01"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/stock/AAPL?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetStock_NotFound(t *testing.T) {
	src := &fakeCandles{err: fmt.Errorf("%w: NOPE", market.ErrTickerNotFound)}
	r := newTestStockRouter(src)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stock/NOPE", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStock_UpstreamError(t *testing.T) {
	r := newTestStockRouter(&fakeCandles{err: errors.New("timeout")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stock/AAPL", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetStockChart(t *testing.T) {
	r := newTestStockRouter(&fakeCandles{candles: sampleCandles()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stock/AAPL/chart.svg?start=2024-01-01&end=2024-01-31", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Equal(t, true, strings.Contains(w.Body.String(), "AAPL Stock Price Chart"))
}
