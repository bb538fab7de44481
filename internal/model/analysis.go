package model

import "time"

type AnalysisResult struct {
	Text   string
	Failed bool
	Model  string
}

type SentimentScore struct {
	Article string  `json:"article"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

type Report struct {
	Ticker     string
	Items      []NewsItem
	Prompt     string
	Result     AnalysisResult
	Sentiments []SentimentScore
	CreatedAt  time.Time
}

type AnalysisRecord struct {
	ID         int64
	Ticker     string
	Result     string
	Failed     bool
	ModelUsed  string
	ItemCount  int
	Sentiments []SentimentScore
	CreatedAt  time.Time
}

// Record flattens a report into its persisted form.
func (r *Report) Record() *AnalysisRecord {
	return &AnalysisRecord{
		Ticker:     r.Ticker,
		Result:     r.Result.Text,
		Failed:     r.Result.Failed,
		ModelUsed:  r.Result.Model,
		ItemCount:  len(r.Items),
		Sentiments: r.Sentiments,
		CreatedAt:  r.CreatedAt,
	}
}

type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
