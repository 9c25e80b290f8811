package narrative

import (
	"fmt"

	"weather-narrator/internal/conditions"
	"weather-narrator/internal/models"
)

var heatHeadlines = headlines{
	"It's going to be a hot one {day}.",
	"Stay cool {day}, it's going to be hot out there.",
	"Expect some serious heat {day}.",
}

// feelsLikeGap is how far the apparent high must run above the actual high
// before it gets its own clause.
const feelsLikeGap = 2.0

type heatRenderer struct {
	headlines
	noHourly
}

func (heatRenderer) DailyText(c models.Condition, day models.ForecastPoint, rc RenderContext) string {
	avg := rc.Thresholds.Month(day.At(rc.Loc).Month())

	text := fmt.Sprintf("Look for a high of %s {day}", degrees(day.TemperatureMax))
	if day.ApparentTemperatureMax-day.TemperatureMax > feelsLikeGap {
		text += fmt.Sprintf(" that will feel more like %d", round(day.ApparentTemperatureMax))
	}
	if above := round(day.TemperatureMax - avg.High); above > 0 {
		text += fmt.Sprintf(", %d above the usual high of %d", above, round(avg.High))
	}
	text += "."

	if c.Topic == conditions.TopicHeatHumid {
		text += fmt.Sprintf(" A dew point around %d will make it feel sticky.", round(day.DewPoint))
	}
	return text
}
