package aggregator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marketbrief/internal/model"
	"marketbrief/pkg/llm"
	"marketbrief/pkg/news"
)

const (
	PromptPrefix  = "Analyze the following articles and provide detailed financial insights:\n\n"
	FailurePrefix = "Error analyzing news: "
)

// Scorer rates rendered article lines. A nil Scorer disables sentiment.
type Scorer interface {
	ScoreItems(items []model.NewsItem) []model.SentimentScore
}

type Service struct {
	providers []news.Provider
	generator llm.Generator
	scorer    Scorer
	now       func() time.Time
}

func New(providers []news.Provider, generator llm.Generator, scorer Scorer) *Service {
	return &Service{
		providers: providers,
		generator: generator,
		scorer:    scorer,
		now:       time.Now,
	}
}

// FetchAll calls every provider once, in order. A failing provider
// contributes nothing and does not stop the rest.
func (s *Service) FetchAll(ctx context.Context, q news.Query) []model.NewsItem {
	var items []model.NewsItem
	for _, p := range s.providers {
		raw, err := p.Fetch(ctx, q)
		if err != nil {
			slog.Error("provider unavailable", "source", p.Source(), "ticker", q.Ticker, "error", err)
			raw = nil
		}

		normalized := p.Normalize(raw)
		slog.Info("fetched news", "source", p.Source(), "count", len(normalized))
		items = append(items, normalized...)
	}
	return items
}

// BuildPrompt renders items in the order given. extra, when set, follows
// after a blank line.
func BuildPrompt(items []model.NewsItem, extra string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Line())
	}

	prompt := PromptPrefix + strings.Join(lines, "\n")
	if extra = strings.TrimSpace(extra); extra != "" {
		prompt += "\n\n" + extra
	}
	return prompt
}

// Analyze makes exactly one generator call. Failures are reported in the
// result, never returned.
func (s *Service) Analyze(ctx context.Context, prompt string) model.AnalysisResult {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("analysis failed", "model", s.generator.Model(), "error", err)
		return model.AnalysisResult{
			Text:   FailurePrefix + err.Error(),
			Failed: true,
			Model:  s.generator.Model(),
		}
	}
	return model.AnalysisResult{Text: text, Model: s.generator.Model()}
}

func (s *Service) Run(ctx context.Context, q news.Query) *model.Report {
	items := s.FetchAll(ctx, q)

	var sentiments []model.SentimentScore
	if s.scorer != nil {
		sentiments = s.scorer.ScoreItems(items)
	}

	prompt := BuildPrompt(items, "")
	return &model.Report{
		Ticker:     q.Ticker,
		Items:      items,
		Prompt:     prompt,
		Result:     s.Analyze(ctx, prompt),
		Sentiments: sentiments,
		CreatedAt:  s.now().UTC(),
	}
}
