package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketbrief/internal/model"
	"marketbrief/internal/repository"
	"marketbrief/pkg/news"
	"marketbrief/pkg/sentiment"
)

type Pipeline interface {
	Run(ctx context.Context, q news.Query) *model.Report
}

type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, rec *model.AnalysisRecord) error
	GetLatestAnalysis(ctx context.Context, ticker string) (*model.AnalysisRecord, error)
	GetAnalyses(ctx context.Context, limit, offset int) ([]model.AnalysisRecord, error)
	GetAnalysisTotal(ctx context.Context) (int, error)
}

type AnalysisHandler struct {
	pipeline Pipeline
	query    func(ticker string) news.Query
	store    AnalysisStore
}

// NewAnalysisHandler serves analyses. store may be nil, which disables
// history.
func NewAnalysisHandler(pipeline Pipeline, query func(ticker string) news.Query, store AnalysisStore) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline, query: query, store: store}
}

func toSentimentResponses(scores []model.SentimentScore) []SentimentResponse {
	res := make([]SentimentResponse, 0, len(scores))
	for _, s := range scores {
		res = append(res, SentimentResponse{
			Article: s.Article,
			Score:   s.Score,
			Label:   sentiment.Label(s.Score),
			Preview: s.Preview,
		})
	}
	return res
}

func toReportResponse(r *model.Report) AnalysisResponse {
	items := make([]NewsItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, NewsItemResponse{
			Source:  item.Source.Label(),
			Title:   item.Title,
			Summary: item.Summary,
		})
	}
	return AnalysisResponse{
		Ticker:     r.Ticker,
		Analysis:   r.Result.Text,
		Failed:     r.Result.Failed,
		ModelUsed:  r.Result.Model,
		ItemCount:  len(r.Items),
		Items:      items,
		Sentiments: toSentimentResponses(r.Sentiments),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func toRecordResponse(rec model.AnalysisRecord) AnalysisResponse {
	return AnalysisResponse{
		ID:         rec.ID,
		Ticker:     rec.Ticker,
		Analysis:   rec.Result,
		Failed:     rec.Failed,
		ModelUsed:  rec.ModelUsed,
		ItemCount:  rec.ItemCount,
		Sentiments: toSentimentResponses(rec.Sentiments),
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

// GetAnalysis runs the pipeline for ?ticker= and records the result.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	q := h.query(c.Query("ticker"))
	report := h.pipeline.Run(c.Request.Context(), q)

	res := toReportResponse(report)
	if h.store != nil {
		rec := report.Record()
		if err := h.store.SaveAnalysis(c.Request.Context(), rec); err != nil {
			slog.Error("error saving analysis", "ticker", report.Ticker, "error", err)
		} else {
			res.ID = rec.ID
		}
	}

	status := http.StatusOK
	if report.Result.Failed {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}

func (h *AnalysisHandler) GetAnalyses(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History not configured"})
		return
	}

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	records, err := h.store.GetAnalyses(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("error fetching analyses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.store.GetAnalysisTotal(c.Request.Context())
	if err != nil {
		slog.Error("error fetching analysis total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := AnalysesResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		History: []AnalysisResponse{},
	}

	// Latest is only the newest analysis on the first page.
	if offset == 0 && len(records) > 0 {
		latest := toRecordResponse(records[0])
		res.Latest = &latest
		records = records[1:]
	}
	for _, rec := range records {
		res.History = append(res.History, toRecordResponse(rec))
	}

	c.JSON(http.StatusOK, res)
}

func (h *AnalysisHandler) GetLatestAnalysis(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History not configured"})
		return
	}

	rec, err := h.store.GetLatestAnalysis(c.Request.Context(), c.Query("ticker"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis available"})
		return
	}
	if err != nil {
		slog.Error("error fetching latest analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toRecordResponse(*rec))
}
