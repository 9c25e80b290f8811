package narrative

import (
	"fmt"
	"time"

	"weather-narrator/internal/models"
)

// DefaultWorkdayEndHour is the local clock hour treated as the end of the work day.
const DefaultWorkdayEndHour = 17

// temperatureRenderer reports the day's range and the shape of the hourly curve.
type temperatureRenderer struct{}

func (temperatureRenderer) Headline(Chooser) string { return "" }

func (temperatureRenderer) DailyText(_ models.Condition, day models.ForecastPoint, _ RenderContext) string {
	return fmt.Sprintf("The low {day} is %s with a high of %d.", degrees(day.TemperatureMin), round(day.TemperatureMax))
}

// HourlyText narrates the hourly window: where the temperature stands, whether
// it is still climbing to the day's high or already heading down, and what it
// should be at the end of the work day.
func (temperatureRenderer) HourlyText(hours []models.ForecastPoint, day models.ForecastPoint, rc RenderContext) string {
	if len(hours) == 0 {
		return ""
	}

	first := hours[0]
	start := first.At(rc.Loc)
	live := !rc.Now.Before(start) && rc.Now.Before(start.Add(time.Hour))

	var lead string
	if live {
		lead = fmt.Sprintf("It's currently %s", degrees(first.Temperature))
	} else {
		lead = fmt.Sprintf("It will start {day} around %s", degrees(first.Temperature))
	}

	var trend string
	if live && pastPeak(hours, day, rc) {
		low := extreme(hours, func(a, b float64) bool { return a < b })
		trend = fmt.Sprintf(" and it's heading down to about %s at %s.",
			degrees(hours[low].Temperature), FormatHour(hours[low].At(rc.Loc)))
	} else {
		high := extreme(hours, func(a, b float64) bool { return a > b })
		trend = fmt.Sprintf(" and it's going up to a high of about %s around %s.",
			degrees(hours[high].Temperature), FormatHour(hours[high].At(rc.Loc)))
	}

	return joinSentences(lead+trend, workdayEnd(hours, rc))
}

// pastPeak reports whether the day's high is less than an hour away or behind us.
func pastPeak(hours []models.ForecastPoint, day models.ForecastPoint, rc RenderContext) bool {
	if day.TemperatureMaxTime == 0 {
		return extreme(hours, func(a, b float64) bool { return a > b }) == 0
	}
	peak := models.Epoch(day.TemperatureMaxTime, rc.Loc)
	return !rc.Now.Before(peak.Add(-time.Hour))
}

// extreme returns the index of the first point whose temperature wins under better.
func extreme(hours []models.ForecastPoint, better func(a, b float64) bool) int {
	best := 0
	for i := 1; i < len(hours); i++ {
		if better(hours[i].Temperature, hours[best].Temperature) {
			best = i
		}
	}
	return best
}

// workdayEnd describes the temperature at the hourly point nearest the end of
// the work day. It is empty once that hour has passed.
func workdayEnd(hours []models.ForecastPoint, rc RenderContext) string {
	start := hours[0].At(rc.Loc)
	y, m, d := start.Date()
	target := time.Date(y, m, d, rc.WorkdayEndHour, 0, 0, 0, rc.Loc)
	if target.Before(start) {
		return ""
	}

	nearest := 0
	for i := range hours {
		if absDuration(hours[i].At(rc.Loc).Sub(target)) < absDuration(hours[nearest].At(rc.Loc).Sub(target)) {
			nearest = i
		}
	}
	return fmt.Sprintf("It should be about %d at the end of the work day.", round(hours[nearest].Temperature))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
