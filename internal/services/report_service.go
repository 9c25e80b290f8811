package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-narrator/internal/models"
	"weather-narrator/internal/narrative"
	"weather-narrator/internal/provider"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

// outcomeOK labels successful reports in the outcome metric.
const outcomeOK = "ok"

// ReportSettings is the per-deployment configuration of the report service.
type ReportSettings struct {
	APIKey         string
	Latitude       string
	Longitude      string
	Location       *time.Location // used for date handling before a payload is fetched
	MaxDaysAhead   int
	Thresholds     models.ThresholdConfig
	WorkdayEndHour int
	Chooser        narrative.Chooser
}

// ReportService validates report requests, fetches the forecast and
// assembles the narrative report.
type ReportService struct {
	fetcher   provider.Fetcher
	assembler *narrative.Assembler
	settings  ReportSettings
	clock     models.Clock
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewReportService creates a new report service
func NewReportService(fetcher provider.Fetcher, settings ReportSettings, clock models.Clock, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ReportService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if clock == nil {
		clock = models.RealClock{}
	}

	s := &ReportService{
		fetcher:  fetcher,
		settings: settings,
		clock:    clock,
		logger:   logger,
		metrics:  metricsCollector,
	}
	s.assembler = narrative.NewAssembler(settings.Thresholds,
		narrative.WithChooser(settings.Chooser),
		narrative.WithWorkdayEndHour(settings.WorkdayEndHour),
		narrative.WithLogger(logger),
		narrative.WithConditionHook(func(section string, c models.Condition) {
			metricsCollector.RecordCondition(section, c.Topic)
		}),
		narrative.WithMissingRendererHook(metricsCollector.RecordRendererMiss),
	)
	return s
}

// GetReport builds the report for the requested date. Validation failures
// are *models.ValidationError and fetch failures wrap *models.UpstreamError.
func (s *ReportService) GetReport(ctx context.Context, date string) (*models.Report, error) {
	timer := s.metrics.NewTimer(s.metrics.ReportDuration)
	defer timer.ObserveDuration()

	report, err := s.buildReport(ctx, date)
	s.metrics.RecordReportOutcome(outcome(err))
	return report, err
}

func (s *ReportService) buildReport(ctx context.Context, date string) (*models.Report, error) {
	s.logger.Info(ctx, "[REPORT_START] Building report", logging.Fields{
		"date":  date,
		"stage": "VALIDATION",
	})

	lat, lng, err := s.coordinates()
	if err != nil {
		s.logRejection(ctx, date, err)
		return nil, err
	}

	now := s.clock.Now().In(s.settings.Location)
	target, err := ParseDate(date, now)
	if err != nil {
		s.logRejection(ctx, date, err)
		return nil, err
	}
	if err := s.checkWindow(date, target, now); err != nil {
		s.logRejection(ctx, date, err)
		return nil, err
	}

	fetchStart := time.Now()
	forecast, err := s.fetcher.Fetch(ctx, lat, lng)
	result := outcomeOK
	if err != nil {
		result = outcome(err)
		s.metrics.RecordProviderError(result)
	}
	s.metrics.ProviderFetchDuration.WithLabelValues(result).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var report *models.Report
	if days, ok := RelativeDays(date); ok {
		report = s.assembler.AssembleRelative(ctx, forecast, days, s.clock.Now())
	} else {
		report = s.assembler.Assemble(ctx, forecast, target, s.clock.Now())
	}

	s.logger.Info(ctx, "[REPORT_COMPLETE] Report built", logging.Fields{
		"date":          report.Date,
		"currently":     report.Currently != nil,
		"daily_summary": report.DailySummary != nil,
		"detail":        report.Detail != nil,
		"stage":         "COMPLETE",
	})
	return report, nil
}

// coordinates checks the API key and the configured coordinates, in that order.
func (s *ReportService) coordinates() (float64, float64, error) {
	if strings.TrimSpace(s.settings.APIKey) == "" {
		return 0, 0, &models.ValidationError{
			Code:    models.CodeMissingAPIKey,
			Field:   "FORECAST_API_KEY",
			Message: "a forecast API key is required",
		}
	}

	lat, err := parseCoordinate("latitude", s.settings.Latitude, 90)
	if err != nil {
		return 0, 0, err
	}
	lng, err := parseCoordinate("longitude", s.settings.Longitude, 180)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func parseCoordinate(field, value string, limit float64) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, &models.ValidationError{
			Code:    models.CodeInvalidCoordinates,
			Field:   field,
			Message: fmt.Sprintf("%s is not set", field),
		}
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &models.ValidationError{
			Code:    models.CodeInvalidCoordinates,
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("%s %q is not a number", field, value),
		}
	}
	if v < -limit || v > limit {
		return 0, &models.ValidationError{
			Code:    models.CodeInvalidCoordinates,
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("%s %v is outside [-%v, %v]", field, v, limit, limit),
		}
	}
	return v, nil
}

// checkWindow rejects dates before today or beyond the forecast horizon.
func (s *ReportService) checkWindow(raw string, target, now time.Time) error {
	today := models.StartOfDay(now)
	day := models.StartOfDay(target.In(now.Location()))

	if day.Before(today) {
		return &models.ValidationError{
			Code:    models.CodeDateInPast,
			Field:   "date",
			Value:   raw,
			Message: fmt.Sprintf("date %s is in the past", day.Format("2006-01-02")),
		}
	}
	if limit := today.AddDate(0, 0, s.settings.MaxDaysAhead); day.After(limit) {
		return &models.ValidationError{
			Code:  models.CodeDateTooFar,
			Field: "date",
			Value: raw,
			Message: fmt.Sprintf("date %s is more than %d days ahead",
				day.Format("2006-01-02"), s.settings.MaxDaysAhead),
		}
	}
	return nil
}

func (s *ReportService) logRejection(ctx context.Context, date string, err error) {
	s.logger.Warn(ctx, "[REPORT_REJECTED] Report request rejected", logging.Fields{
		"date":   date,
		"reason": err.Error(),
		"code":   outcome(err),
	})
}

// ParseDate resolves a requested date relative to now. Accepted forms are
// "" and "today", "tomorrow", YYYY-MM-DD, RFC3339 and Unix epoch seconds.
// Results are expressed in now's location.
func ParseDate(value string, now time.Time) (time.Time, error) {
	if days, ok := RelativeDays(value); ok {
		return now.AddDate(0, 0, days), nil
	}

	v := strings.TrimSpace(value)

	if t, err := time.ParseInLocation("2006-01-02", v, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(now.Location()), nil
	}
	if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(sec, 0).In(now.Location()), nil
	}

	return time.Time{}, &models.ValidationError{
		Code:    models.CodeInvalidDate,
		Field:   "date",
		Value:   value,
		Message: fmt.Sprintf("date %q is not today, tomorrow, YYYY-MM-DD, RFC3339 or epoch seconds", value),
	}
}

// RelativeDays reports whether value names a day relative to the present
// ("", "today", "now" or "tomorrow") and how many days ahead it is.
func RelativeDays(value string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today", "now":
		return 0, true
	case "tomorrow":
		return 1, true
	}
	return 0, false
}

// outcome returns the error code of err, or "ok" when err is nil.
func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return validation.Code
	}
	var upstream *models.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Code
	}
	return "internal"
}
