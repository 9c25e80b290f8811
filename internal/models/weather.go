package models

import (
	"time"
)

// PointKind identifies which block of the provider payload a record came from.
// It is derived from the record's position, never stored on the record.
type PointKind string

const (
	KindCurrent PointKind = "currently"
	KindHourly  PointKind = "hourly"
	KindDaily   PointKind = "daily"
)

// ForecastPoint is a single hourly, daily or current record from the forecast provider.
// All times are Unix epoch seconds. Values are treated as read-only once decoded.
type ForecastPoint struct {
	Time    int64  `json:"time"`
	Summary string `json:"summary,omitempty"`
	Icon    string `json:"icon,omitempty"`

	PrecipType             string  `json:"precipType,omitempty"`
	PrecipIntensity        float64 `json:"precipIntensity"`
	PrecipIntensityMax     float64 `json:"precipIntensityMax,omitempty"`
	PrecipIntensityMaxTime int64   `json:"precipIntensityMaxTime,omitempty"`
	PrecipProbability      float64 `json:"precipProbability"`
	PrecipAccumulation     float64 `json:"precipAccumulation,omitempty"`

	Temperature            float64 `json:"temperature"`
	ApparentTemperature    float64 `json:"apparentTemperature"`
	TemperatureMin         float64 `json:"temperatureMin"`
	TemperatureMinTime     int64   `json:"temperatureMinTime,omitempty"`
	TemperatureMax         float64 `json:"temperatureMax"`
	TemperatureMaxTime     int64   `json:"temperatureMaxTime,omitempty"`
	ApparentTemperatureMin float64 `json:"apparentTemperatureMin"`
	ApparentTemperatureMax float64 `json:"apparentTemperatureMax"`

	DewPoint   float64 `json:"dewPoint"`
	Humidity   float64 `json:"humidity"`
	WindSpeed  float64 `json:"windSpeed"`
	CloudCover float64 `json:"cloudCover"`
	Visibility float64 `json:"visibility,omitempty"`

	SunriseTime int64 `json:"sunriseTime,omitempty"`
	SunsetTime  int64 `json:"sunsetTime,omitempty"`
}

// At returns the record's timestamp in the given location.
func (p ForecastPoint) At(loc *time.Location) time.Time {
	return Epoch(p.Time, loc)
}

// DataBlock is a provider block holding a summary and a series of records.
type DataBlock struct {
	Summary string          `json:"summary,omitempty"`
	Icon    string          `json:"icon,omitempty"`
	Data    []ForecastPoint `json:"data"`
}

// Alert is a severe-weather alert issued by the provider.
type Alert struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Time        int64    `json:"time"`
	Expires     int64    `json:"expires"`
	Severity    string   `json:"severity,omitempty"`
	Regions     []string `json:"regions,omitempty"`
	URI         string   `json:"uri,omitempty"`
}

// ActiveAt reports whether now falls within [Time, Expires).
func (a Alert) ActiveAt(now time.Time) bool {
	ts := now.Unix()
	return ts >= a.Time && ts < a.Expires
}

// Forecast is the decoded provider payload for one location.
type Forecast struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Timezone  string        `json:"timezone"`
	Currently ForecastPoint `json:"currently"`
	Hourly    DataBlock     `json:"hourly"`
	Daily     DataBlock     `json:"daily"`
	Alerts    []Alert       `json:"alerts,omitempty"`
}

// Location resolves the payload timezone, falling back to fallback (or UTC)
// when the name is empty or unknown.
func (f *Forecast) Location(fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	if f.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// DailyFor returns the daily record whose local calendar date equals date.
func (f *Forecast) DailyFor(date time.Time, loc *time.Location) (ForecastPoint, bool) {
	for _, p := range f.Daily.Data {
		if SameDay(p.At(loc), date) {
			return p, true
		}
	}
	return ForecastPoint{}, false
}

// Condition is a noteworthy weather topic with a computed severity.
type Condition struct {
	Topic       string  `json:"topic"`
	Probability float64 `json:"probability"`
	Level       float64 `json:"level"`
}

// Section is one part of a report. Data holds a ForecastPoint for the
// currently and dailySummary sections and a []ForecastPoint for detail.
type Section struct {
	Kind       PointKind         `json:"kind"`
	Data       interface{}       `json:"data"`
	Conditions map[string]string `json:"conditions"`
	Flags      map[string]string `json:"flags,omitempty"`
	Forecast   string            `json:"forecast"`
}

// Report is the composite result for a requested date.
// Any section is nil when the date is outside its window.
type Report struct {
	Date         string   `json:"date"`
	Currently    *Section `json:"currently"`
	DailySummary *Section `json:"dailySummary"`
	Detail       *Section `json:"detail"`
}

// Section names accepted by Report.SectionNamed.
const (
	SectionCurrently = "currently"
	SectionDaily     = "daily"
	SectionDetail    = "detail"
)

// ValidSection reports whether name is a known section name.
func ValidSection(name string) bool {
	switch name {
	case SectionCurrently, SectionDaily, SectionDetail:
		return true
	}
	return false
}

// SectionNamed returns the named section, which may be nil. ok is false for
// unknown names.
func (r *Report) SectionNamed(name string) (s *Section, ok bool) {
	switch name {
	case SectionCurrently:
		return r.Currently, true
	case SectionDaily:
		return r.DailySummary, true
	case SectionDetail:
		return r.Detail, true
	}
	return nil, false
}

// Epoch converts Unix seconds to a time in loc.
func Epoch(sec int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(sec, 0).In(loc)
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns local midnight of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }
