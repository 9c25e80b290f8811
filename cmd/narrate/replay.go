package main

import (
	"context"
	"fmt"
	"time"

	"weather-narrator/internal/config"
	"weather-narrator/internal/models"
	"weather-narrator/internal/narrative"
	"weather-narrator/internal/provider"
	"weather-narrator/internal/services"
	"weather-narrator/pkg/logging"
)

// replay narrates a saved payload without touching the network. now pins the
// present instant; it defaults to the payload's currently timestamp.
func replay(ctx context.Context, cfg *config.Config, logger *logging.StructuredLogger, path, now, date string) (*models.Report, error) {
	forecast, err := provider.ReadFile(path)
	if err != nil {
		return nil, err
	}

	loc := forecast.Location(time.UTC)
	present := models.Epoch(forecast.Currently.Time, loc)
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --now %q: %w", now, err)
		}
		present = t.In(loc)
	}

	target, err := services.ParseDate(date, present)
	if err != nil {
		return nil, err
	}

	var chooser narrative.Chooser = narrative.FirstChooser
	if cfg.Narrative.HeadlineSeed != 0 {
		chooser = narrative.SeededChooser(cfg.Narrative.HeadlineSeed)
	}
	assembler := narrative.NewAssembler(cfg.Thresholds(),
		narrative.WithChooser(chooser),
		narrative.WithWorkdayEndHour(cfg.Narrative.WorkdayEndHour),
		narrative.WithLogger(logger),
	)

	logger.Info(ctx, "[REPLAY] Narrating saved payload", logging.Fields{
		"path": path,
		"now":  present.Format(time.RFC3339),
	})
	if days, ok := services.RelativeDays(date); ok {
		return assembler.AssembleRelative(ctx, forecast, days, present), nil
	}
	return assembler.Assemble(ctx, forecast, target, present), nil
}
