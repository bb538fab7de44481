package app

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"marketbrief/internal/config"
	"marketbrief/internal/model"
	"marketbrief/pkg/news"
)

type fakeGenerator struct{}

func (fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "ok", nil
}

func (fakeGenerator) Model() string { return "fake-model" }

func TestPipelineRejectsUnknownSource(t *testing.T) {
	_, err := Pipeline(fakeGenerator{}, []news.Spec{{Source: model.Source("reuters")}}, false)

	assert.Equal(t, true, errors.Is(err, news.ErrUnknownProvider))
}

func TestPipelineWithoutProvidersStillAnalyzes(t *testing.T) {
	svc, err := Pipeline(fakeGenerator{}, nil, true)
	assert.Equal(t, nil, err)

	report := svc.Run(context.Background(), news.Query{Ticker: "AAPL"})

	assert.Equal(t, "ok", report.Result.Text)
	assert.Equal(t, 0, len(report.Sentiments))
}

func TestHistoryDisabledWithoutURL(t *testing.T) {
	repo, conn, err := History(context.Background(), &config.Config{})

	assert.Equal(t, nil, err)
	assert.Equal(t, true, repo == nil)
	assert.Equal(t, true, conn == nil)
}

func TestRedisDisabledWithoutURL(t *testing.T) {
	client, err := Redis(context.Background(), &config.Config{})

	assert.Equal(t, nil, err)
	assert.Equal(t, true, client == nil)
}
