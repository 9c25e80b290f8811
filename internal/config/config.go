// Package config loads the narrator's environment configuration. It is read
// once at startup and treated as immutable afterwards.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-narrator/internal/models"
)

// Config is the top-level configuration.
type Config struct {
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`

	Server    ServerConfig
	Forecast  ForecastConfig
	Location  LocationConfig
	Narrative NarrativeConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ForecastConfig holds the forecast provider settings. An empty API key is
// allowed here and rejected per request.
type ForecastConfig struct {
	APIKey  string        `envconfig:"FORECAST_API_KEY"`
	BaseURL string        `envconfig:"FORECAST_BASE_URL" default:"https://api.pirateweather.net/forecast" validate:"required,url"`
	Timeout time.Duration `envconfig:"FORECAST_TIMEOUT" default:"10s" validate:"gt=0"`
	Units   string        `envconfig:"FORECAST_UNITS" default:"us" validate:"oneof=us si ca uk uk2 auto"`
}

// LocationConfig is the place reports are built for. Coordinates stay strings
// so malformed values surface as request rejections.
type LocationConfig struct {
	Latitude  string `envconfig:"LATITUDE"`
	Longitude string `envconfig:"LONGITUDE"`
	Timezone  string `envconfig:"TIMEZONE" default:"America/New_York"`
}

// NarrativeConfig holds the thresholds and knobs of report generation.
type NarrativeConfig struct {
	MonthlyAverages MonthlyAverages `envconfig:"MONTHLY_AVERAGES" default:"39:27,42:29,50:35,62:45,72:54,80:64,85:69,84:68,76:61,65:50,54:41,44:32"`
	DewPointBreak   float64         `envconfig:"DEW_POINT_BREAK" default:"65"`
	HumidityBreak   float64         `envconfig:"HUMIDITY_BREAK" default:"0.7" validate:"gte=0,lte=1"`
	WindBreak       float64         `envconfig:"WIND_BREAK" default:"15" validate:"gte=0"`
	CloudBreak      float64         `envconfig:"CLOUD_BREAK" default:"0.75" validate:"gte=0,lte=1"`
	WorkdayEndHour  int             `envconfig:"WORKDAY_END_HOUR" default:"17" validate:"min=0,max=23"`
	MaxDaysAhead    int             `envconfig:"MAX_DAYS_AHEAD" default:"7" validate:"min=0"`
	HeadlineSeed    uint64          `envconfig:"HEADLINE_SEED" default:"0"`
}

// MonthlyAverages is twelve high/low pairs, January first.
// Its text form is "high:low,high:low,...".
type MonthlyAverages [12]models.MonthlyAverage

// Decode implements envconfig.Decoder.
func (m *MonthlyAverages) Decode(value string) error {
	pairs := strings.Split(value, ",")
	if len(pairs) != len(m) {
		return fmt.Errorf("expected %d high:low pairs, got %d", len(m), len(pairs))
	}

	var out MonthlyAverages
	for i, pair := range pairs {
		high, low, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return fmt.Errorf("month %d: %q is not high:low", i+1, pair)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(high), 64)
		if err != nil {
			return fmt.Errorf("month %d high: %w", i+1, err)
		}
		l, err := strconv.ParseFloat(strings.TrimSpace(low), 64)
		if err != nil {
			return fmt.Errorf("month %d low: %w", i+1, err)
		}
		if l > h {
			return fmt.Errorf("month %d: low %v above high %v", i+1, l, h)
		}
		out[i] = models.MonthlyAverage{High: h, Low: l}
	}
	*m = out
	return nil
}

// String renders the averages in their text form.
func (m MonthlyAverages) String() string {
	parts := make([]string, len(m))
	for i, avg := range m {
		parts[i] = strconv.FormatFloat(avg.High, 'f', -1, 64) + ":" + strconv.FormatFloat(avg.Low, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Thresholds builds the immutable threshold set handed to the classifier and renderers.
func (c *Config) Thresholds() models.ThresholdConfig {
	return models.ThresholdConfig{
		MonthlyAverages: c.Narrative.MonthlyAverages,
		DewPointBreak:   c.Narrative.DewPointBreak,
		HumidityBreak:   c.Narrative.HumidityBreak,
		WindBreak:       c.Narrative.WindBreak,
		CloudBreak:      c.Narrative.CloudBreak,
	}
}

// TimeLocation resolves the default timezone used before a payload is fetched.
func (c *Config) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(c.Location.Timezone)
}
