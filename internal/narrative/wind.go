package narrative

import (
	"fmt"

	"weather-narrator/internal/models"
)

var windHeadlines = headlines{
	"Hold on to your hat {day}.",
	"It's going to be a blustery one {day}.",
}

type windRenderer struct {
	headlines
	noHourly
}

func (windRenderer) DailyText(_ models.Condition, day models.ForecastPoint, rc RenderContext) string {
	adjective := "breezy"
	if day.WindSpeed > 2*rc.Thresholds.WindBreak {
		adjective = "very windy"
	}
	return fmt.Sprintf("It will be %s {day} with winds around %d mph.", adjective, round(day.WindSpeed))
}
