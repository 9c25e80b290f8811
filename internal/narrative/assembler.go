package narrative

import (
	"context"
	"time"

	"weather-narrator/internal/conditions"
	"weather-narrator/internal/models"
	"weather-narrator/pkg/logging"
)

const (
	// quietRestOfDayHour is the local hour after which a quiet today reads
	// "rest of today".
	quietRestOfDayHour = 10

	// tomorrowScanLimit bounds how many hourly records are searched for tomorrow.
	tomorrowScanLimit = 49
)

// Assembler builds reports from a fetched forecast payload. It holds only
// read-only configuration and is safe for concurrent use when its Chooser is.
type Assembler struct {
	thresholds     models.ThresholdConfig
	choose         Chooser
	workdayEndHour int
	logger         *logging.StructuredLogger
	onMissing      func(topic string)
	onCondition    func(section string, c models.Condition)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithChooser sets the headline chooser.
func WithChooser(c Chooser) Option {
	return func(a *Assembler) {
		if c != nil {
			a.choose = c
		}
	}
}

// WithWorkdayEndHour sets the local hour used for "end of the work day".
func WithWorkdayEndHour(hour int) Option {
	return func(a *Assembler) {
		a.workdayEndHour = hour
	}
}

// WithLogger sets the logger used for renderer lookup misses.
func WithLogger(l *logging.StructuredLogger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// WithMissingRendererHook is called with the topic of every failed renderer lookup.
func WithMissingRendererHook(fn func(topic string)) Option {
	return func(a *Assembler) {
		a.onMissing = fn
	}
}

// WithConditionHook is called for every classified condition with the
// section ("dailySummary" or "detail") that produced it.
func WithConditionHook(fn func(section string, c models.Condition)) Option {
	return func(a *Assembler) {
		a.onCondition = fn
	}
}

// NewAssembler creates an Assembler for the given thresholds.
func NewAssembler(thresholds models.ThresholdConfig, opts ...Option) *Assembler {
	a := &Assembler{
		thresholds:     thresholds,
		choose:         RandomChooser(),
		workdayEndHour: DefaultWorkdayEndHour,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble computes the three report sections for the calendar date of date.
// The payload timezone decides local days; now is the present instant.
func (a *Assembler) Assemble(ctx context.Context, f *models.Forecast, date, now time.Time) *models.Report {
	rc := a.renderContext(f, now)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, rc.Loc)
	return a.assemble(ctx, f, day, rc)
}

// AssembleRelative builds the report for the day that is days after the
// present local day of the payload's timezone. Use it for "today" and
// "tomorrow" so the caller's own timezone cannot shift the day.
func (a *Assembler) AssembleRelative(ctx context.Context, f *models.Forecast, days int, now time.Time) *models.Report {
	rc := a.renderContext(f, now)
	day := models.StartOfDay(rc.Now).AddDate(0, 0, days)
	return a.assemble(ctx, f, day, rc)
}

func (a *Assembler) assemble(ctx context.Context, f *models.Forecast, day time.Time, rc RenderContext) *models.Report {
	return &models.Report{
		Date:         day.Format("2006-01-02"),
		Currently:    ComposeCurrent(f, day, rc),
		DailySummary: a.dailySummary(ctx, f, day, rc),
		Detail:       a.detail(ctx, f, day, rc),
	}
}

func (a *Assembler) renderContext(f *models.Forecast, now time.Time) RenderContext {
	loc := f.Location(now.Location())
	return RenderContext{
		Now:            now.In(loc),
		Loc:            loc,
		Thresholds:     a.thresholds,
		WorkdayEndHour: a.workdayEndHour,
	}
}

func (a *Assembler) dailySummary(ctx context.Context, f *models.Forecast, day time.Time, rc RenderContext) *models.Section {
	point, ok := f.DailyFor(day, rc.Loc)
	if !ok {
		return nil
	}

	texts := make(map[string]string)
	var parts []string

	conds := conditions.Classify(point, a.thresholds, rc.Loc)
	for i, c := range conds {
		a.observe("dailySummary", c)
		r := a.lookup(ctx, c.Topic)
		if i == 0 {
			parts = append(parts, r.Headline(a.choose))
		}
		if text := r.DailyText(c, point, rc); text != "" {
			texts[c.Topic] = text
			parts = append(parts, text)
		}
	}
	if len(conds) == 0 {
		parts = append(parts, quietText(day, rc))
	}

	temp, _ := Lookup(TopicTemperature)
	tempText := temp.DailyText(models.Condition{Topic: TopicTemperature}, point, rc)
	texts[TopicTemperature] = tempText
	parts = append(parts, tempText)

	return finish(models.KindDaily, point, texts, parts, DayPhrase(day, rc.Now))
}

func (a *Assembler) detail(ctx context.Context, f *models.Forecast, day time.Time, rc RenderContext) *models.Section {
	tomorrow := rc.Now.AddDate(0, 0, 1)
	var hours []models.ForecastPoint
	switch {
	case models.SameDay(rc.Now, day):
		hours = todayHours(f.Hourly.Data, rc)
	case models.SameDay(tomorrow, day):
		hours = tomorrowHours(f.Hourly.Data, tomorrow, rc)
	default:
		return nil
	}
	if len(hours) == 0 {
		return nil
	}

	point, ok := f.DailyFor(day, rc.Loc)
	if !ok {
		return nil
	}

	texts := make(map[string]string)
	temp, _ := Lookup(TopicTemperature)
	tempText := temp.HourlyText(hours, point, rc)
	texts[TopicTemperature] = tempText
	parts := []string{tempText}

	for _, c := range conditions.Classify(point, a.thresholds, rc.Loc) {
		a.observe("detail", c)
		if text := a.lookup(ctx, c.Topic).HourlyText(hours, point, rc); text != "" {
			texts[c.Topic] = text
			parts = append(parts, text)
		}
	}

	return finish(models.KindHourly, hours, texts, parts, DayPhrase(day, rc.Now))
}

// todayHours returns hourly records from the start of the block until the
// first record that falls on a later day.
func todayHours(hourly []models.ForecastPoint, rc RenderContext) []models.ForecastPoint {
	end := 0
	for end < len(hourly) && models.SameDay(rc.Now, hourly[end].At(rc.Loc)) {
		end++
	}
	return hourly[:end:end]
}

// tomorrowHours returns the contiguous run of hourly records dated tomorrow.
func tomorrowHours(hourly []models.ForecastPoint, tomorrow time.Time, rc RenderContext) []models.ForecastPoint {
	limit := min(len(hourly), tomorrowScanLimit)
	start, end := -1, -1
	for i := 0; i < limit; i++ {
		if models.SameDay(tomorrow, hourly[i].At(rc.Loc)) {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return nil
	}
	return hourly[start:end:end]
}

func quietText(day time.Time, rc RenderContext) string {
	if models.SameDay(rc.Now, day) && rc.Now.Hour() > quietRestOfDayHour {
		return "It looks like quiet weather for the rest of today."
	}
	return "It looks like a quiet day of weather {day}."
}

func finish(kind models.PointKind, data interface{}, texts map[string]string, parts []string, day string) *models.Section {
	for k, v := range texts {
		texts[k] = SubstituteDay(v, day)
	}
	return &models.Section{
		Kind:       kind,
		Data:       data,
		Conditions: texts,
		Forecast:   SubstituteDay(joinSentences(parts...), day),
	}
}

// lookup resolves a renderer, logging topics that have none.
func (a *Assembler) lookup(ctx context.Context, topic string) Renderer {
	r, ok := Lookup(topic)
	if ok {
		return r
	}
	if a.logger != nil {
		a.logger.Warn(ctx, "[RENDERER_MISSING] No renderer for condition topic", logging.Fields{
			"topic": topic,
		})
	}
	if a.onMissing != nil {
		a.onMissing(topic)
	}
	return r
}

func (a *Assembler) observe(section string, c models.Condition) {
	if a.onCondition != nil {
		a.onCondition(section, c)
	}
}
