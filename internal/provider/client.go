// Package provider fetches forecast payloads from a Dark Sky compatible API.
// Every call goes through a circuit breaker and failures are mapped onto
// *models.UpstreamError.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"weather-narrator/internal/models"
	"weather-narrator/pkg/logging"
)

// maxErrorBody bounds how much of a failed response is kept for the error message.
const maxErrorBody = 512

// Fetcher retrieves the forecast for a coordinate pair.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lng float64) (*models.Forecast, error)
}

// Client is the forecast provider client.
type Client struct {
	baseURL    string
	apiKey     string
	units      string
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*models.Forecast]
	logger     *logging.StructuredLogger
	onState    func(gobreaker.State)
	settings   gobreaker.Settings
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithUnits sets the unit system query parameter.
func WithUnits(units string) Option {
	return func(c *Client) {
		c.units = units
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for fetch results and breaker transitions.
func WithLogger(l *logging.StructuredLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithBreakerStateHook is called with the new state on every breaker transition.
func WithBreakerStateHook(fn func(gobreaker.State)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// WithBreakerSettings overrides the trip and recovery settings of the breaker.
// Name, IsSuccessful and OnStateChange are always set by the client.
func WithBreakerSettings(s gobreaker.Settings) Option {
	return func(c *Client) {
		c.settings = s
	}
}

// NewClient creates a Client for baseURL authenticated by apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		units:      "us",
		userAgent:  "weather-narrator/1.0",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		settings: gobreaker.Settings{
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	settings := c.settings
	settings.Name = "forecast-provider"
	// Only failures a later retry could fix count against the breaker.
	settings.IsSuccessful = func(err error) bool {
		if err == nil || errors.Is(err, context.Canceled) {
			return true
		}
		var upstream *models.UpstreamError
		if errors.As(err, &upstream) {
			return !upstream.IsTransient()
		}
		return false
	}
	settings.OnStateChange = c.stateChanged
	c.breaker = gobreaker.NewCircuitBreaker[*models.Forecast](settings)

	return c
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Fetch performs a single GET for the forecast at lat,lng.
func (c *Client) Fetch(ctx context.Context, lat, lng float64) (*models.Forecast, error) {
	forecast, err := c.breaker.Execute(func() (*models.Forecast, error) {
		return c.fetch(ctx, lat, lng)
	})
	if err == nil {
		return forecast, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &models.UpstreamError{
			Code:    models.CodeCircuitOpen,
			Message: "forecast provider temporarily unavailable",
			Err:     err,
		}
	}
	if c.logger != nil {
		c.logger.Error(ctx, "[PROVIDER_FETCH_ERROR] Forecast fetch failed", logging.Fields{
			"latitude":  lat,
			"longitude": lng,
		}, err)
	}
	return nil, err
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (*models.Forecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(lat, lng), nil)
	if err != nil {
		return nil, &models.UpstreamError{
			Code:    models.CodeTransportFailure,
			Message: "failed to build forecast request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{
			Code:    models.CodeTransportFailure,
			Message: "forecast request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &models.UpstreamError{
			Code:       models.CodeUpstreamStatus,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("forecast provider returned %d", resp.StatusCode),
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	forecast, err := Decode(resp.Body)
	if err != nil {
		var upstream *models.UpstreamError
		if errors.As(err, &upstream) {
			upstream.StatusCode = resp.StatusCode
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug(ctx, "[PROVIDER_FETCH] Forecast fetched", logging.Fields{
			"timezone":      forecast.Timezone,
			"hourly_points": len(forecast.Hourly.Data),
			"daily_points":  len(forecast.Daily.Data),
			"alerts":        len(forecast.Alerts),
		})
	}
	return forecast, nil
}

// endpoint builds {base}/{apiKey}/{lat},{lng}?exclude=minutely&units={units}.
func (c *Client) endpoint(lat, lng float64) string {
	coords := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	q := url.Values{}
	q.Set("exclude", "minutely")
	if c.units != "" {
		q.Set("units", c.units)
	}
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, url.PathEscape(c.apiKey), coords, q.Encode())
}

func (c *Client) stateChanged(name string, from, to gobreaker.State) {
	if c.logger != nil {
		c.logger.Warn(context.Background(), "[PROVIDER_BREAKER] Circuit breaker state changed", logging.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		})
	}
	if c.onState != nil {
		c.onState(to)
	}
}
