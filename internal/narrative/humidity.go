package narrative

import (
	"fmt"

	"weather-narrator/internal/models"
)

var humidityHeadlines = headlines{
	"It's going to be muggy {day}.",
	"Get ready for some sticky air {day}.",
}

type humidityRenderer struct {
	headlines
	noHourly
}

func (humidityRenderer) DailyText(_ models.Condition, day models.ForecastPoint, _ RenderContext) string {
	return fmt.Sprintf("Humidity will be around %d percent {day} with a dew point of %s.",
		percent(day.Humidity), degrees(day.DewPoint))
}
