package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-narrator/internal/models"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

type stubReports struct {
	report   *models.Report
	err      error
	gotDate  string
	gotReqID string
}

func (s *stubReports) GetReport(ctx context.Context, date string) (*models.Report, error) {
	s.gotDate = date
	s.gotReqID = logging.RequestIDFromContext(ctx)
	return s.report, s.err
}

type stubBreaker gobreaker.State

func (s stubBreaker) State() gobreaker.State { return gobreaker.State(s) }

func sampleReport() *models.Report {
	return &models.Report{
		Date: "2024-07-11",
		DailySummary: &models.Section{
			Kind:       models.KindDaily,
			Data:       models.ForecastPoint{Time: 1720670400, TemperatureMin: 70, TemperatureMax: 82},
			Conditions: map[string]string{"temperature": "The low tomorrow is 70 degrees with a high of 82."},
			Forecast:   "It looks like a quiet day of weather tomorrow. The low tomorrow is 70 degrees with a high of 82.",
		},
		Detail: &models.Section{
			Kind:       models.KindHourly,
			Data:       []models.ForecastPoint{{Time: 1720670400, Temperature: 71}},
			Conditions: map[string]string{},
			Forecast:   "It will start tomorrow around 71 degrees.",
		},
	}
}

type testEnv struct {
	handler   http.Handler
	reports   *stubReports
	collector *metrics.Collector
}

func newTestEnv(reports *stubReports, breaker BreakerReporter) *testEnv {
	logger := logging.NewStructuredLogger("narrator-test", "test", logging.DebugLevel)
	logger.SetOutput(io.Discard)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("narrator", reg)

	router := NewRouter(
		NewReportHandler(reports, logger, collector),
		NewHealthHandler("9.9.9", breaker, logger),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		logger,
	)
	return &testEnv{handler: router, reports: reports, collector: collector}
}

func (e *testEnv) get(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetReport_OK(t *testing.T) {
	env := newTestEnv(&stubReports{report: sampleReport()}, nil)

	rec := env.get(t, "/api/forecast?date=tomorrow", RequestIDHeader, "abc-123")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "tomorrow", env.reports.gotDate)
	assert.Equal(t, "abc-123", env.reports.gotReqID)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `"2024-07-11"`, string(body["date"]))
	assert.JSONEq(t, `null`, string(body["currently"]))
	assert.Contains(t, string(body["dailySummary"]), "quiet day of weather tomorrow")

	assert.Equal(t, 1.0, testutil.ToFloat64(env.collector.APIRequestsTotal.WithLabelValues("/api/forecast", "GET", "200")))
}

func TestGetReport_GeneratesRequestID(t *testing.T) {
	env := newTestEnv(&stubReports{report: sampleReport()}, nil)

	rec := env.get(t, "/api/forecast")

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, env.reports.gotReqID)
}

func TestGetReport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "validation",
			err:        &models.ValidationError{Code: models.CodeDateInPast, Field: "date", Message: "date 2024-07-09 is in the past"},
			wantStatus: http.StatusBadRequest,
			wantReason: models.CodeDateInPast,
		},
		{
			name:       "upstream status",
			err:        &models.UpstreamError{Code: models.CodeUpstreamStatus, StatusCode: 500, Message: "forecast provider returned 500"},
			wantStatus: http.StatusBadGateway,
			wantReason: models.CodeUpstreamStatus,
		},
		{
			name:       "circuit open",
			err:        &models.UpstreamError{Code: models.CodeCircuitOpen, Message: "unavailable"},
			wantStatus: http.StatusServiceUnavailable,
			wantReason: models.CodeCircuitOpen,
		},
		{
			name:       "unexpected",
			err:        io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantReason: "internal_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(&stubReports{err: tt.err}, nil)

			rec := env.get(t, "/api/forecast?date=x")

			require.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusText(tt.wantStatus), body.Error)
			assert.Equal(t, tt.err.Error(), body.Message)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantReason, body.Reason)
			assert.Equal(t, 1.0, testutil.ToFloat64(env.collector.APIErrorsTotal.WithLabelValues(tt.wantReason, "/api/forecast")))
		})
	}
}

func TestGetSection(t *testing.T) {
	env := newTestEnv(&stubReports{report: sampleReport()}, nil)

	rec := env.get(t, "/api/forecast/detail?date=tomorrow")
	require.Equal(t, http.StatusOK, rec.Code)
	var section models.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &section))
	assert.Equal(t, models.KindHourly, section.Kind)
	assert.Equal(t, "It will start tomorrow around 71 degrees.", section.Forecast)

	rec = env.get(t, "/api/forecast/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quiet day of weather tomorrow")

	rec = env.get(t, "/api/forecast/currently")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestGetSection_Unknown(t *testing.T) {
	reports := &stubReports{report: sampleReport()}
	env := newTestEnv(reports, nil)

	rec := env.get(t, "/api/forecast/weekly")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown_section", body.Reason)
	assert.Empty(t, reports.gotDate)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(&stubReports{}, stubBreaker(gobreaker.StateClosed))
	rec := env.get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "9.9.9", body["version"])
	assert.Equal(t, "closed", body["provider"])

	env = newTestEnv(&stubReports{}, stubBreaker(gobreaker.StateOpen))
	rec = env.get(t, "/health")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestDocsAndMetrics(t *testing.T) {
	env := newTestEnv(&stubReports{report: sampleReport()}, nil)

	rec := env.get(t, "/api/docs/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	paths := spec["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/api/forecast")
	assert.Contains(t, paths, "/api/forecast/{section}")

	rec = env.get(t, "/api/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	env.get(t, "/api/forecast")
	rec = env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "narrator_api_requests_total")
}

func TestResponsesAreCompressed(t *testing.T) {
	env := newTestEnv(&stubReports{}, nil)

	rec := env.get(t, "/api/docs/openapi.json", "Accept-Encoding", "gzip")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}
