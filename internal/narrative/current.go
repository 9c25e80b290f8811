package narrative

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"weather-narrator/internal/models"
)

// Current-conditions thresholds.
const (
	currentPrecipLikely = 0.8
	sunnyCloudCover     = 0.4
	feelsLikeMargin     = 5.0
	extremeTempMargin   = 5.0

	specialStatementTitle = "special weather statement"
	maxStatementLength    = 200
)

// Condition keys used in the currently section.
const (
	KeyTemperature = "temperature"
	KeyHumidity    = "humidity"
	KeyWind        = "wind"
	KeyAlerts      = "alerts"
	KeySunny       = "sunny"
	KeyClear       = "clear"
	KeyPartlySunny = "partly-sunny"
	KeyPartlyClear = "partly-cloudy"
	KeyCloudy      = "mostly-cloudy"

	FlagHeat = "heat"
	FlagCold = "cold"
)

// ComposeCurrent builds the "right now" section. It returns nil unless date
// falls on the same calendar day as rc.Now.
func ComposeCurrent(f *models.Forecast, date time.Time, rc RenderContext) *models.Section {
	if !models.SameDay(rc.Now, date) {
		return nil
	}

	cur := f.Currently
	conds := make(map[string]string)
	flags := make(map[string]string)
	var parts []string

	add := func(key, text string) {
		conds[key] = text
		parts = append(parts, text)
	}

	if cur.PrecipProbability > currentPrecipLikely {
		kind := precipNoun(cur.PrecipType)
		add(kind, fmt.Sprintf("There is %s %s right now", IntensityPhrase(cur.PrecipIntensity, cur.PrecipType), kind))
	} else {
		add(skyState(cur.CloudCover, isNight(f, rc), rc.Thresholds.CloudBreak))
	}

	temp := fmt.Sprintf("and it's currently %s", degrees(cur.Temperature))
	if diff := cur.ApparentTemperature - cur.Temperature; diff > feelsLikeMargin || diff < -feelsLikeMargin {
		temp += fmt.Sprintf(", but it feels like %d", round(cur.ApparentTemperature))
	}
	temp += "."
	add(KeyTemperature, temp)

	avg := rc.Thresholds.Month(rc.Now.Month())
	if cur.Temperature > avg.High+extremeTempMargin || cur.ApparentTemperature > avg.High+extremeTempMargin {
		flags[FlagHeat] = temp
	}
	if cur.Temperature < avg.Low-extremeTempMargin || cur.ApparentTemperature < avg.Low-extremeTempMargin {
		flags[FlagCold] = temp
	}

	if cur.DewPoint >= rc.Thresholds.DewPointBreak && cur.Humidity >= rc.Thresholds.HumidityBreak {
		add(KeyHumidity, fmt.Sprintf("It's humid with %d percent humidity and a dew point of %s.",
			percent(cur.Humidity), degrees(cur.DewPoint)))
	}

	if cur.WindSpeed > rc.Thresholds.WindBreak {
		add(KeyWind, fmt.Sprintf("It's windy with winds around %d mph.", round(cur.WindSpeed)))
	}

	if text := alertsText(f.Alerts, rc); text != "" {
		add(KeyAlerts, text)
	}

	section := &models.Section{
		Kind:       models.KindCurrent,
		Data:       cur,
		Conditions: conds,
		Forecast:   joinSentences(parts...),
	}
	if len(flags) > 0 {
		section.Flags = flags
	}
	return section
}

func skyState(cloudCover float64, night bool, cloudBreak float64) (key, text string) {
	switch {
	case cloudCover >= cloudBreak:
		return KeyCloudy, "It's cloudy right now"
	case cloudCover < sunnyCloudCover && night:
		return KeyClear, "It's clear right now"
	case cloudCover < sunnyCloudCover:
		return KeySunny, "It's sunny right now"
	case night:
		return KeyPartlyClear, "It's partly cloudy right now"
	default:
		return KeyPartlySunny, "It's partly sunny right now"
	}
}

// isNight uses today's sunrise and sunset when the payload carries them.
func isNight(f *models.Forecast, rc RenderContext) bool {
	day, ok := f.DailyFor(rc.Now, rc.Loc)
	if !ok || day.SunriseTime == 0 || day.SunsetTime == 0 {
		return false
	}
	ts := rc.Now.Unix()
	return ts < day.SunriseTime || ts >= day.SunsetTime
}

// alertsText renders every alert active at rc.Now, once per title.
func alertsText(alerts []models.Alert, rc RenderContext) string {
	seen := make(map[string]bool)
	var lines []string
	for _, a := range alerts {
		if !a.ActiveAt(rc.Now) || seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		lines = append(lines, alertLine(a, rc))
	}

	switch len(lines) {
	case 0:
		return ""
	case 1:
		return joinSentences("There is a weather alert:", lines[0])
	default:
		return joinSentences(append([]string{"There are multiple weather alerts:"}, lines...)...)
	}
}

func alertLine(a models.Alert, rc RenderContext) string {
	if strings.EqualFold(strings.TrimSpace(a.Title), specialStatementTitle) {
		return summarizeStatement(a.Description)
	}

	expires := models.Epoch(a.Expires, rc.Loc)
	until := FormatHour(expires)
	if !models.SameDay(rc.Now, expires) {
		until = fmt.Sprintf("%s at %s", expires.Weekday(), until)
	}
	return fmt.Sprintf("%s until %s.", a.Title, until)
}

// summarizeStatement flattens a statement description and truncates it at a
// word boundary.
func summarizeStatement(description string) string {
	text := strings.Join(strings.Fields(description), " ")
	text = strings.Trim(text, ". ")
	if text == "" {
		return "A special weather statement is in effect."
	}
	if len(text) <= maxStatementLength {
		return text + "."
	}

	end := maxStatementLength
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",;: ") + "..."
}
