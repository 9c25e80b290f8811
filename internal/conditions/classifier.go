// Package conditions decides which weather conditions in a daily forecast
// record are worth mentioning and how severe they are.
package conditions

import (
	"sort"
	"time"

	"weather-narrator/internal/models"
)

// Topics produced by the classifier. Sleet is reported under TopicSnow.
const (
	TopicRain      = "rain"
	TopicSnow      = "snow"
	TopicHeat      = "heat"
	TopicHeatHumid = "heat-humid"
	TopicHumidity  = "humidity"
	TopicCold      = "cold"
	TopicColdWind  = "cold-wind"
	TopicClouds    = "clouds"
	TopicWind      = "wind"
)

// Break point margins.
const (
	minPrecipProbability = 0.1
	rainIntensityMin     = 0.01
	snowIntensityMin     = 0.005
	sleetIntensityMin    = 0.05

	apparentMargin    = 5.0 // degrees beyond the monthly average for apparent temperature
	humidityNearBreak = 0.9 // fraction of a break point at which humidity alone is notable
)

// Classify inspects one daily record and returns the conditions worth
// mentioning, most severe first. Rules form a priority chain: the first
// matching rule wins, so the result holds at most one condition.
//
// The record's month is taken in loc.
func Classify(day models.ForecastPoint, cfg models.ThresholdConfig, loc *time.Location) []models.Condition {
	var out []models.Condition
	if c, ok := classifyDay(day, cfg, loc); ok {
		out = append(out, c)
	}
	SortBySeverity(out)
	return out
}

// SortBySeverity orders conditions by descending level. Ties keep their order.
func SortBySeverity(conds []models.Condition) {
	sort.SliceStable(conds, func(i, j int) bool {
		return conds[i].Level > conds[j].Level
	})
}

func classifyDay(day models.ForecastPoint, cfg models.ThresholdConfig, loc *time.Location) (models.Condition, bool) {
	likely := day.PrecipProbability > minPrecipProbability

	switch {
	case day.PrecipType == "rain" && likely && day.PrecipIntensityMax > rainIntensityMin:
		return models.Condition{
			Topic:       TopicRain,
			Probability: day.PrecipProbability,
			Level:       day.PrecipIntensityMax * 20,
		}, true

	case day.PrecipType == "snow" && likely && day.PrecipIntensityMax > snowIntensityMin:
		level := 1 - day.Visibility
		if level < 1 {
			level = day.PrecipAccumulation
		}
		return models.Condition{Topic: TopicSnow, Probability: day.PrecipProbability, Level: level}, true

	case day.PrecipType == "sleet" && likely && day.PrecipIntensityMax > sleetIntensityMin:
		return models.Condition{
			Topic:       TopicSnow,
			Probability: day.PrecipProbability,
			Level:       day.PrecipAccumulation * 10,
		}, true
	}

	avg := cfg.Month(day.At(loc).Month())

	if c, ok := heat(day, cfg, avg); ok {
		return c, true
	}

	if day.DewPoint > humidityNearBreak*cfg.DewPointBreak && day.Humidity > humidityNearBreak*cfg.HumidityBreak {
		return models.Condition{
			Topic:       TopicHumidity,
			Probability: 1,
			Level:       humidityExcess(day, cfg, humidityNearBreak),
		}, true
	}

	if c, ok := cold(day, cfg, avg); ok {
		return c, true
	}

	if day.CloudCover > cfg.CloudBreak {
		return models.Condition{
			Topic:       TopicClouds,
			Probability: 1,
			Level:       (day.CloudCover - cfg.CloudBreak) * 50,
		}, true
	}

	if day.WindSpeed > cfg.WindBreak {
		return models.Condition{
			Topic:       TopicWind,
			Probability: 1,
			Level:       (day.WindSpeed - cfg.WindBreak) / 2,
		}, true
	}

	return models.Condition{}, false
}

func heat(day models.ForecastPoint, cfg models.ThresholdConfig, avg models.MonthlyAverage) (models.Condition, bool) {
	tempExcess := day.TemperatureMax - avg.High
	apparentExcess := day.ApparentTemperatureMax - (avg.High + apparentMargin)
	if tempExcess <= 0 && apparentExcess <= 0 {
		return models.Condition{}, false
	}

	c := models.Condition{Topic: TopicHeat, Probability: 1, Level: max(tempExcess, apparentExcess)}
	if day.DewPoint > cfg.DewPointBreak || day.Humidity > cfg.HumidityBreak {
		c.Topic = TopicHeatHumid
		c.Level += humidityExcess(day, cfg, 1) / 2
	}
	return c, true
}

func cold(day models.ForecastPoint, cfg models.ThresholdConfig, avg models.MonthlyAverage) (models.Condition, bool) {
	tempDeficit := avg.Low - day.TemperatureMin
	apparentDeficit := (avg.Low - apparentMargin) - day.ApparentTemperatureMin
	if tempDeficit <= 0 && apparentDeficit <= 0 {
		return models.Condition{}, false
	}

	c := models.Condition{Topic: TopicCold, Probability: 1, Level: max(tempDeficit, apparentDeficit)}
	if day.WindSpeed > cfg.WindBreak {
		c.Topic = TopicColdWind
		c.Level += (day.WindSpeed - cfg.WindBreak) / 5
	}
	return c, true
}

// humidityExcess sums how far dew point (degrees) and humidity (percentage
// points) sit above scale times their break points. Negative parts count as zero.
func humidityExcess(day models.ForecastPoint, cfg models.ThresholdConfig, scale float64) float64 {
	dew := max(day.DewPoint-scale*cfg.DewPointBreak, 0)
	hum := max(day.Humidity-scale*cfg.HumidityBreak, 0) * 100
	return dew + hum
}
