package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"marketbrief/internal/app"
	"marketbrief/internal/model"
	"marketbrief/internal/notify"
	"marketbrief/pkg/news"
)

// digest runs a single analysis over Alpha Vantage and FMP with
// per-article sentiment and prints it.
func main() {
	ctx := context.Background()

	cfg, err := app.Init()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	var specs []news.Spec
	for _, spec := range cfg.ProviderSpecs() {
		if spec.Source == model.SourceAlphaVantage || spec.Source == model.SourceFMP {
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		slog.Error("no news source API keys configured", "want", []model.Source{model.SourceAlphaVantage, model.SourceFMP})
		return
	}

	gen, err := app.Generator(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating LLM client: %v", err)
	}

	pipeline, err := app.Pipeline(gen, specs, true)
	if err != nil {
		log.Fatalf("error building providers: %v", err)
	}

	report := pipeline.Run(ctx, cfg.Query(""))

	if err := notify.NewConsole(os.Stdout).Notify(ctx, report); err != nil {
		log.Fatalf("error writing report: %v", err)
	}
}
