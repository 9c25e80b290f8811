package narrative

import (
	"fmt"

	"weather-narrator/internal/models"
)

var cloudsHeadlines = headlines{
	"Don't expect much sun {day}.",
	"It's looking gray {day}.",
}

type cloudsRenderer struct {
	headlines
	noHourly
}

func (cloudsRenderer) DailyText(_ models.Condition, day models.ForecastPoint, _ RenderContext) string {
	return fmt.Sprintf("Skies will be mostly cloudy {day} with about %d percent cloud cover.", percent(day.CloudCover))
}
