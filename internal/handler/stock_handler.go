package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"marketbrief/internal/model"
	"marketbrief/pkg/market"
)

type CandleSource interface {
	DailyCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error)
}

type StockHandler struct {
	source CandleSource
}

func NewStockHandler(source CandleSource) *StockHandler {
	return &StockHandler{source: source}
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	start, end := market.DefaultStart, market.DefaultEnd
	var err error
	if v := c.Query("start"); v != "" {
		if start, err = time.Parse(time.DateOnly, v); err != nil {
			return start, end, fmt.Errorf("invalid start %q", v)
		}
	}
	if v := c.Query("end"); v != "" {
		if end, err = time.Parse(time.DateOnly, v); err != nil {
			return start, end, fmt.Errorf("invalid end %q", v)
		}
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end before start")
	}
	return start, end, nil
}

func (h *StockHandler) candles(c *gin.Context) (string, time.Time, time.Time, []model.Candle, bool) {
	ticker := strings.ToUpper(c.Param("ticker"))

	start, end, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ticker, start, end, nil, false
	}

	candles, err := h.source.DailyCandles(c.Request.Context(), ticker, start, end)
	if errors.Is(err, market.ErrTickerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticker not found"})
		return ticker, start, end, nil, false
	}
	if err != nil {
		slog.Error("error fetching candles", "ticker", ticker, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Price data unavailable"})
		return ticker, start, end, nil, false
	}
	return ticker, start, end, candles, true
}

func (h *StockHandler) GetStock(c *gin.Context) {
	ticker, start, end, candles, ok := h.candles(c)
	if !ok {
		return
	}

	res := StockResponse{
		Ticker:  ticker,
		Start:   start.Format(time.DateOnly),
		End:     end.Format(time.DateOnly),
		Candles: make([]CandleResponse, 0, len(candles)),
	}
	for _, k := range candles {
		res.Candles = append(res.Candles, CandleResponse{
			Date:   k.Date.Format(time.DateOnly),
			Open:   k.Open,
			High:   k.High,
			Low:    k.Low,
			Close:  k.Close,
			Volume: k.Volume,
		})
	}
	c.JSON(http.StatusOK, res)
}

func (h *StockHandler) GetStockChart(c *gin.Context) {
	ticker, _, _, candles, ok := h.candles(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", market.RenderLineChart(candles, ticker+" "+market.DefaultChartTitle))
}
