package narrative

import (
	"fmt"

	"weather-narrator/internal/models"
)

var rainHeadlines = headlines{
	"Grab an umbrella {day}.",
	"It looks like a wet one {day}.",
	"Rain is in the forecast {day}.",
}

var snowHeadlines = headlines{
	"Snow is on the way {day}.",
	"Bundle up, there's wintry weather in the forecast {day}.",
	"Watch out for slick roads {day}.",
}

// Intensity break points in inches of liquid per hour.
const (
	extremeIntensity  = 0.7
	heavyIntensity    = 0.2
	moderateIntensity = 0.07
	lightIntensity    = 0.01

	// hourlyPrecipLikely is the probability at which an hour counts as wet.
	hourlyPrecipLikely = 0.5
)

// IntensityPhrase describes a precipitation intensity in words.
func IntensityPhrase(intensity float64, precipType string) string {
	switch {
	case intensity > extremeIntensity:
		return "extremely heavy"
	case intensity > heavyIntensity:
		return "heavy"
	case intensity > moderateIntensity:
		return "moderate"
	case intensity > lightIntensity:
		return "light"
	}

	switch precipType {
	case "snow":
		return "a dusting of"
	case "sleet":
		return "a little"
	default:
		return "very light"
	}
}

func precipNoun(precipType string) string {
	if precipType == "" {
		return "precipitation"
	}
	return precipType
}

// precipitationRenderer covers rain, snow and sleet.
type precipitationRenderer struct {
	headlines
}

func (precipitationRenderer) DailyText(c models.Condition, day models.ForecastPoint, rc RenderContext) string {
	kind := precipNoun(day.PrecipType)
	text := fmt.Sprintf("You should expect %s %s. There is a %d percent chance",
		IntensityPhrase(day.PrecipIntensityMax, day.PrecipType), kind, percent(c.Probability))

	if day.PrecipIntensityMaxTime == 0 {
		return text + "."
	}
	peak := models.Epoch(day.PrecipIntensityMaxTime, rc.Loc)
	return fmt.Sprintf("%s peaking at around %s.", text, FormatHour(peak))
}

// HourlyText names the span of hours in which precipitation is likely.
func (precipitationRenderer) HourlyText(hours []models.ForecastPoint, day models.ForecastPoint, rc RenderContext) string {
	first, last := -1, -1
	for i, h := range hours {
		if h.PrecipProbability >= hourlyPrecipLikely && h.PrecipIntensity > lightIntensity {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return ""
	}

	kind := precipNoun(hours[first].PrecipType)
	if kind == "precipitation" {
		kind = precipNoun(day.PrecipType)
	}
	start := hours[first].At(rc.Loc)
	if first == last {
		return fmt.Sprintf("Look for %s around %s.", kind, FormatHour(start))
	}
	end := hours[last].At(rc.Loc)
	return fmt.Sprintf("Look for %s from about %s through %s.", kind, FormatHour(start), FormatHour(end))
}
