package services

import (
	"fmt"

	"github.com/sony/gobreaker/v2"

	"weather-narrator/internal/config"
	"weather-narrator/internal/narrative"
	"weather-narrator/internal/provider"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

// NewFromConfig wires the provider client and report service described by cfg.
func NewFromConfig(cfg *config.Config, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (*ReportService, *provider.Client, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Location.Timezone, err)
	}

	client := provider.NewClient(cfg.Forecast.BaseURL, cfg.Forecast.APIKey,
		provider.WithTimeout(cfg.Forecast.Timeout),
		provider.WithUnits(cfg.Forecast.Units),
		provider.WithUserAgent("weather-narrator/"+cfg.AppVersion),
		provider.WithLogger(logger),
		provider.WithBreakerStateHook(func(s gobreaker.State) {
			metricsCollector.SetBreakerState(int(s))
		}),
	)

	var chooser narrative.Chooser
	if cfg.Narrative.HeadlineSeed != 0 {
		chooser = narrative.SeededChooser(cfg.Narrative.HeadlineSeed)
	}

	svc := NewReportService(client, ReportSettings{
		APIKey:         cfg.Forecast.APIKey,
		Latitude:       cfg.Location.Latitude,
		Longitude:      cfg.Location.Longitude,
		Location:       loc,
		MaxDaysAhead:   cfg.Narrative.MaxDaysAhead,
		Thresholds:     cfg.Thresholds(),
		WorkdayEndHour: cfg.Narrative.WorkdayEndHour,
		Chooser:        chooser,
	}, nil, logger, metricsCollector)

	return svc, client, nil
}
