package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"marketbrief/internal/app"
	"marketbrief/internal/notify"
	"marketbrief/internal/schedule"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.Init()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("error loading schedule timezone: %v", err)
	}

	gen, err := app.Generator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating LLM client: %v", err)
	}

	pipeline, err := app.Pipeline(gen, cfg.ProviderSpecs(), cfg.SentimentEnabled)
	if err != nil {
		log.Fatalf("error building providers: %v", err)
	}

	history, conn, err := app.History(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	var guard schedule.RunGuard = schedule.NewMemoryGuard()
	rdb, err := app.Redis(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		guard = schedule.NewRedisGuard(rdb)
	}

	notifiers := notify.Multi{notify.NewConsole(os.Stdout)}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("error creating Telegram bot: %v", err)
		}
		notifiers = append(notifiers, tg)
	}

	job := schedule.NewDailyJob("analysis", loc, guard, func(ctx context.Context) error {
		report := pipeline.Run(ctx, cfg.Query(""))

		if history != nil {
			rec := report.Record()
			if err := history.SaveAnalysis(ctx, rec); err != nil {
				slog.Error("error saving analysis", "ticker", report.Ticker, "error", err)
			} else {
				slog.Info("analysis saved", "analysis_id", rec.ID, "ticker", rec.Ticker)
			}
		}

		return notifiers.Notify(ctx, report)
	})

	scheduler, err := schedule.NewScheduler(cfg.ScheduleCron, job)
	if err != nil {
		log.Fatalf("error registering schedule: %v", err)
	}

	scheduler.Run(ctx)
}
