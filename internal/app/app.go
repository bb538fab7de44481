package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"marketbrief/db"
	"marketbrief/internal/aggregator"
	"marketbrief/internal/config"
	"marketbrief/internal/logging"
	"marketbrief/internal/model"
	"marketbrief/internal/repository"
	"marketbrief/pkg/llm"
	"marketbrief/pkg/news"
	"marketbrief/pkg/sentiment"
)

// Init loads configuration and installs the default logger.
func Init() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	return cfg, nil
}

func Generator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	return llm.NewGenerator(ctx, cfg.LLMProvider, cfg.LLMKey(), cfg.LLMModel)
}

// Pipeline builds the aggregator over specs. Sentiment is scored when
// withSentiment is set.
func Pipeline(gen llm.Generator, specs []news.Spec, withSentiment bool) (*aggregator.Service, error) {
	providers, err := news.Build(specs)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		slog.Warn("no news providers configured")
	}

	sources := make([]model.Source, 0, len(providers))
	for _, p := range providers {
		sources = append(sources, p.Source())
	}
	slog.Info("news providers", "sources", sources, "model", gen.Model(), "sentiment", withSentiment)

	if withSentiment {
		return aggregator.New(providers, gen, sentiment.NewAnalyzer()), nil
	}
	return aggregator.New(providers, gen, nil), nil
}

// History connects to Postgres when DATABASE_URL is set. A nil repository
// means history is disabled.
func History(ctx context.Context, cfg *config.Config) (*repository.AnalysisRepository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL not set, analysis history disabled")
		return nil, nil, nil
	}

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return repository.NewAnalysisRepository(conn), conn, nil
}

// Redis connects when REDIS_URL is set and returns nil otherwise.
func Redis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	client, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return client, nil
}
