package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"weather-narrator/internal/models"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

// Route templates, also used as metric labels.
const (
	forecastRoute = "/api/forecast"
	sectionRoute  = "/api/forecast/{section}"
)

// ReportGetter builds a report for a requested date.
type ReportGetter interface {
	GetReport(ctx context.Context, date string) (*models.Report, error)
}

// ReportHandler handles forecast narrative endpoints
type ReportHandler struct {
	reports ReportGetter
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportGetter, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
}

// GetReport handles GET /api/forecast
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues(forecastRoute).Observe(time.Since(startTime).Seconds())
	}()

	report, ok := h.buildReport(w, r, forecastRoute)
	if !ok {
		return
	}

	h.metrics.RecordAPIRequest(forecastRoute, r.Method, "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetSection handles GET /api/forecast/{section}. A section outside its
// time window is returned as JSON null.
func (h *ReportHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues(sectionRoute).Observe(time.Since(startTime).Seconds())
	}()

	name := mux.Vars(r)["section"]
	if !models.ValidSection(name) {
		h.metrics.RecordAPIError("unknown_section", sectionRoute)
		h.sendError(w, r, sectionRoute, "section must be one of currently, daily, detail", "unknown_section", http.StatusNotFound)
		return
	}

	report, ok := h.buildReport(w, r, sectionRoute)
	if !ok {
		return
	}

	h.metrics.RecordAPIRequest(sectionRoute, r.Method, "200")
	section, _ := report.SectionNamed(name)
	h.sendJSON(w, section, http.StatusOK)
}

func (h *ReportHandler) buildReport(w http.ResponseWriter, r *http.Request, route string) (*models.Report, bool) {
	ctx := r.Context()
	date := r.URL.Query().Get("date")

	report, err := h.reports.GetReport(ctx, date)
	if err == nil {
		return report, true
	}

	status, reason := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "[API_GET_REPORT_ERROR] Failed to build report", logging.Fields{
			"date":   date,
			"reason": reason,
		}, err)
	} else {
		h.logger.Info(ctx, "[API_GET_REPORT_REJECTED] Report request rejected", logging.Fields{
			"date":   date,
			"reason": reason,
		})
	}
	h.metrics.RecordAPIError(reason, route)
	h.sendError(w, r, route, err.Error(), reason, status)
	return nil, false
}

// classify maps a service error to a response status and reason code.
func classify(err error) (int, string) {
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return validation.HTTPStatus(), validation.Code
	}
	var upstream *models.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.HTTPStatus(), upstream.Code
	}
	return http.StatusInternalServerError, "internal_error"
}

// sendJSON sends a JSON response
func (h *ReportHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(w, data, statusCode)
}

// sendError sends an error response
func (h *ReportHandler) sendError(w http.ResponseWriter, r *http.Request, route, message, reason string, statusCode int) {
	h.metrics.RecordAPIRequest(route, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
		Reason:  reason,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers the forecast API routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(forecastRoute, h.GetReport).Methods("GET")
	router.HandleFunc(sectionRoute, h.GetSection).Methods("GET")
}

func sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
