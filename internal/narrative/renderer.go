// Package narrative turns classified forecast records into short English
// sentences: per-topic renderers, the current-conditions composer and the
// report assembler.
package narrative

import (
	"math/rand/v2"
	"sync"
	"time"

	"weather-narrator/internal/conditions"
	"weather-narrator/internal/models"
)

// TopicTemperature is the renderer for the daily and hourly temperature
// narrative. It is not produced by the classifier.
const TopicTemperature = "temperature"

// Chooser picks an index in [0, n). Report text is deterministic when the
// chooser is.
type Chooser func(n int) int

// RandomChooser returns a Chooser backed by the process-wide generator.
func RandomChooser() Chooser {
	return rand.IntN
}

// SeededChooser returns a Chooser whose sequence is fixed by seed.
// It is safe for concurrent use.
func SeededChooser(seed uint64) Chooser {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.IntN(n)
	}
}

// FirstChooser always picks the first candidate.
func FirstChooser(int) int { return 0 }

// RenderContext carries what renderers need beyond the record itself.
type RenderContext struct {
	Now            time.Time // present instant, in Loc
	Loc            *time.Location
	Thresholds     models.ThresholdConfig
	WorkdayEndHour int
}

// Renderer produces text for one condition topic. Text may contain
// DayPlaceholder; callers substitute it.
type Renderer interface {
	// Headline returns one lead sentence sampled with choose.
	Headline(choose Chooser) string
	// DailyText describes the condition over a whole day.
	DailyText(c models.Condition, day models.ForecastPoint, rc RenderContext) string
	// HourlyText narrates the given hourly window. It may return "".
	HourlyText(hours []models.ForecastPoint, day models.ForecastPoint, rc RenderContext) string
}

type headlines []string

func (h headlines) Headline(choose Chooser) string {
	if len(h) == 0 {
		return ""
	}
	if choose == nil {
		choose = FirstChooser
	}
	return h[choose(len(h))]
}

type noHourly struct{}

func (noHourly) HourlyText([]models.ForecastPoint, models.ForecastPoint, RenderContext) string {
	return ""
}

// noopRenderer contributes no text.
type noopRenderer struct {
	noHourly
}

func (noopRenderer) Headline(Chooser) string { return "" }

func (noopRenderer) DailyText(models.Condition, models.ForecastPoint, RenderContext) string {
	return ""
}

var registry = map[string]Renderer{
	conditions.TopicRain:      precipitationRenderer{headlines: rainHeadlines},
	conditions.TopicSnow:      precipitationRenderer{headlines: snowHeadlines},
	conditions.TopicHeat:      heatRenderer{headlines: heatHeadlines},
	conditions.TopicHeatHumid: heatRenderer{headlines: heatHeadlines},
	conditions.TopicHumidity:  humidityRenderer{headlines: humidityHeadlines},
	conditions.TopicCold:      coldRenderer{headlines: coldHeadlines},
	conditions.TopicColdWind:  coldRenderer{headlines: coldHeadlines},
	conditions.TopicClouds:    cloudsRenderer{headlines: cloudsHeadlines},
	conditions.TopicWind:      windRenderer{headlines: windHeadlines},
	TopicTemperature:          temperatureRenderer{},
}

// Lookup returns the renderer for topic. Unknown topics get a renderer that
// contributes no text, and ok is false.
func Lookup(topic string) (r Renderer, ok bool) {
	r, ok = registry[topic]
	if !ok {
		return noopRenderer{}, false
	}
	return r, true
}
