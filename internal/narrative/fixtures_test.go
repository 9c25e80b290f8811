package narrative

import (
	"math"
	"time"

	"weather-narrator/internal/models"
)

var testDay = time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC) // a Wednesday

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

// diurnal is a cosine curve between low and high peaking at the given hour.
func diurnal(low, high float64, peak int) func(h int) float64 {
	return func(h int) float64 {
		return low + (high-low)*(1+math.Cos(math.Pi*float64(h-peak)/12))/2
	}
}

// hourlyRange builds one hourly record per hour in [from, to] on day.
func hourlyRange(day time.Time, from, to int, temp func(h int) float64) []models.ForecastPoint {
	var out []models.ForecastPoint
	for h := from; h <= to; h++ {
		out = append(out, models.ForecastPoint{
			Time:        at(day, h, 0).Unix(),
			Temperature: temp(h),
		})
	}
	return out
}

// quietDay is a July daily record that trips no condition rule.
func quietDay(day time.Time) models.ForecastPoint {
	return models.ForecastPoint{
		Time:                   day.Unix(),
		TemperatureMin:         70,
		TemperatureMax:         82,
		TemperatureMaxTime:     at(day, 14, 0).Unix(),
		ApparentTemperatureMin: 70,
		ApparentTemperatureMax: 84,
		DewPoint:               50,
		Humidity:               0.4,
		WindSpeed:              5,
		CloudCover:             0.2,
		Visibility:             10,
		SunriseTime:            at(day, 5, 30).Unix(),
		SunsetTime:             at(day, 20, 30).Unix(),
	}
}

func renderContext(now time.Time) RenderContext {
	return RenderContext{
		Now:            now,
		Loc:            time.UTC,
		Thresholds:     models.DefaultThresholds(),
		WorkdayEndHour: DefaultWorkdayEndHour,
	}
}
