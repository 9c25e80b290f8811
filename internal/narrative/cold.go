package narrative

import (
	"fmt"

	"weather-narrator/internal/conditions"
	"weather-narrator/internal/models"
)

var coldHeadlines = headlines{
	"Bundle up {day}, it's going to be cold.",
	"It's going to be chilly {day}.",
	"Grab a warm coat {day}.",
}

type coldRenderer struct {
	headlines
	noHourly
}

func (coldRenderer) DailyText(c models.Condition, day models.ForecastPoint, rc RenderContext) string {
	avg := rc.Thresholds.Month(day.At(rc.Loc).Month())

	text := fmt.Sprintf("The low {day} will be %s", degrees(day.TemperatureMin))
	if below := round(avg.Low - day.TemperatureMin); below > 0 {
		text += fmt.Sprintf(", %d below the usual low of %d", below, round(avg.Low))
	}
	text += "."

	if c.Topic == conditions.TopicColdWind {
		text += fmt.Sprintf(" Winds around %d mph will make it feel like %d.",
			round(day.WindSpeed), round(day.ApparentTemperatureMin))
	}
	return text
}
