package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketbrief/internal/app"
	"marketbrief/internal/chat"
	"marketbrief/internal/handler"
	"marketbrief/pkg/market"
)

func main() {
	ctx := context.Background()

	cfg, err := app.Init()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	gen, err := app.Generator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating LLM client: %v", err)
	}

	pipeline, err := app.Pipeline(gen, cfg.ProviderSpecs(), cfg.SentimentEnabled)
	if err != nil {
		log.Fatalf("error building providers: %v", err)
	}

	checks := map[string]handler.HealthCheck{}

	history, conn, err := app.History(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	var store handler.AnalysisStore
	if history != nil {
		defer conn.Close()
		store = history
		checks["database"] = conn.PingContext
	}

	rdb, err := app.Redis(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	var chatStore chat.Store = chat.NewMemoryStore()
	if rdb != nil {
		defer rdb.Close()
		chatStore = chat.NewRedisStore(rdb, chat.DefaultSessionTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	analysisHandler := handler.NewAnalysisHandler(pipeline, cfg.Query, store)
	chatHandler := handler.NewChatHandler(chat.NewService(chatStore, gen))
	stockHandler := handler.NewStockHandler(market.NewYahooClient(nil))
	healthHandler := handler.NewHealthHandler(checks)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/analysis", analysisHandler.GetAnalysis)
	r.GET("/analyses", analysisHandler.GetAnalyses)
	r.GET("/analyses/latest", analysisHandler.GetLatestAnalysis)
	r.POST("/chat", chatHandler.PostChat)
	r.GET("/chat/:id", chatHandler.GetChat)
	r.GET("/stock/:ticker", stockHandler.GetStock)
	r.GET("/stock/:ticker/chart.svg", stockHandler.GetStockChart)
	r.GET("/health", healthHandler.GetHealth)

	err = r.Run(cfg.HTTPAddr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
