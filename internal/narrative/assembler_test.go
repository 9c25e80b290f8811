package narrative

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-narrator/internal/conditions"
	"weather-narrator/internal/models"
)

// weekForecast covers 2024-07-10 through 2024-07-13 with 49 hourly records
// starting at 07:00 on the first day.
func weekForecast() *models.Forecast {
	var daily []models.ForecastPoint
	for i := 0; i < 4; i++ {
		daily = append(daily, quietDay(testDay.AddDate(0, 0, i)))
	}

	var hourly []models.ForecastPoint
	curve := diurnal(70, 82, 14)
	start := at(testDay, 7, 0)
	for i := 0; i < 49; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		hourly = append(hourly, models.ForecastPoint{Time: ts.Unix(), Temperature: curve(ts.Hour())})
	}

	now := at(testDay, 7, 1)
	return &models.Forecast{
		Latitude:  40.7,
		Longitude: -74,
		Timezone:  "UTC",
		Currently: pleasantNow(now),
		Hourly:    models.DataBlock{Data: hourly},
		Daily:     models.DataBlock{Data: daily},
	}
}

func rainyTomorrow(f *models.Forecast) {
	d := &f.Daily.Data[1]
	d.PrecipType = "rain"
	d.PrecipProbability = 0.8
	d.PrecipIntensityMax = 0.15
	d.PrecipIntensityMaxTime = at(testDay.AddDate(0, 0, 1), 16, 0).Unix()

	for i := range f.Hourly.Data {
		ts := f.Hourly.Data[i].At(time.UTC)
		if ts.Day() == 11 && ts.Hour() >= 15 && ts.Hour() <= 17 {
			f.Hourly.Data[i].PrecipType = "rain"
			f.Hourly.Data[i].PrecipProbability = 0.8
			f.Hourly.Data[i].PrecipIntensity = 0.12
		}
	}
}

func newTestAssembler(opts ...Option) *Assembler {
	return NewAssembler(models.DefaultThresholds(), append([]Option{WithChooser(FirstChooser)}, opts...)...)
}

func TestAssemble_Today(t *testing.T) {
	now := at(testDay, 7, 1)
	report := newTestAssembler().Assemble(context.Background(), weekForecast(), testDay, now)

	assert.Equal(t, "2024-07-10", report.Date)
	require.NotNil(t, report.Currently)
	assert.Equal(t, models.KindCurrent, report.Currently.Kind)

	require.NotNil(t, report.DailySummary)
	assert.Equal(t, models.KindDaily, report.DailySummary.Kind)
	assert.Equal(t, "It looks like a quiet day of weather today. The low today is 70 degrees with a high of 82.",
		report.DailySummary.Forecast)
	assert.Equal(t, "The low today is 70 degrees with a high of 82.", report.DailySummary.Conditions[TopicTemperature])

	require.NotNil(t, report.Detail)
	assert.Equal(t, models.KindHourly, report.Detail.Kind)
	hours, ok := report.Detail.Data.([]models.ForecastPoint)
	require.True(t, ok)
	assert.Len(t, hours, 17)
	assert.Contains(t, report.Detail.Forecast, "It's currently")
	assert.Contains(t, report.Detail.Forecast, "at the end of the work day")
}

func TestAssemble_QuietRestOfToday(t *testing.T) {
	now := at(testDay, 11, 30)
	report := newTestAssembler().Assemble(context.Background(), weekForecast(), testDay, now)

	require.NotNil(t, report.DailySummary)
	assert.Contains(t, report.DailySummary.Forecast, "It looks like quiet weather for the rest of today.")
}

func TestAssemble_Tomorrow(t *testing.T) {
	now := at(testDay, 7, 1)
	f := weekForecast()
	rainyTomorrow(f)

	var seen []string
	a := newTestAssembler(WithConditionHook(func(section string, c models.Condition) {
		seen = append(seen, section+":"+c.Topic)
	}))
	report := a.Assemble(context.Background(), f, testDay.AddDate(0, 0, 1), now)

	assert.Equal(t, "2024-07-11", report.Date)
	assert.Nil(t, report.Currently)

	require.NotNil(t, report.DailySummary)
	assert.Equal(t, "Grab an umbrella tomorrow. You should expect moderate rain. "+
		"There is a 80 percent chance peaking at around 4 pm. "+
		"The low tomorrow is 70 degrees with a high of 82.", report.DailySummary.Forecast)
	assert.Contains(t, report.DailySummary.Conditions, conditions.TopicRain)

	require.NotNil(t, report.Detail)
	hours := report.Detail.Data.([]models.ForecastPoint)
	assert.Len(t, hours, 24)
	assert.True(t, models.SameDay(at(testDay.AddDate(0, 0, 1), 0, 0), hours[0].At(time.UTC)))
	assert.Contains(t, report.Detail.Forecast, "It will start tomorrow around 71 degrees")
	assert.Equal(t, "Look for rain from about 3 pm through 5 pm.", report.Detail.Conditions[conditions.TopicRain])
	assert.NotContains(t, report.Detail.Forecast, DayPlaceholder)

	assert.Equal(t, []string{"dailySummary:rain", "detail:rain"}, seen)
}

func TestAssemble_BeyondTomorrow(t *testing.T) {
	now := at(testDay, 7, 1)
	report := newTestAssembler().Assemble(context.Background(), weekForecast(), testDay.AddDate(0, 0, 2), now)

	assert.Nil(t, report.Currently)
	assert.Nil(t, report.Detail)
	require.NotNil(t, report.DailySummary)
	assert.Equal(t, "It looks like a quiet day of weather Friday. The low Friday is 70 degrees with a high of 82.",
		report.DailySummary.Forecast)
}

func TestAssemble_DateOutsidePayload(t *testing.T) {
	now := at(testDay, 7, 1)
	report := newTestAssembler().Assemble(context.Background(), weekForecast(), testDay.AddDate(0, 0, 6), now)

	assert.Equal(t, "2024-07-16", report.Date)
	assert.Nil(t, report.Currently)
	assert.Nil(t, report.DailySummary)
	assert.Nil(t, report.Detail)
}

func TestAssemble_IdempotentAndPayloadUntouched(t *testing.T) {
	now := at(testDay, 7, 1)
	f := weekForecast()
	rainyTomorrow(f)
	before, err := json.Marshal(f)
	require.NoError(t, err)

	a := newTestAssembler()
	first := a.Assemble(context.Background(), f, testDay.AddDate(0, 0, 1), now)
	second := a.Assemble(context.Background(), f, testDay.AddDate(0, 0, 1), now)

	assert.Equal(t, first, second)
	after, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestAssemble_PayloadTimezoneDecidesDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := weekForecast()
	f.Timezone = "America/New_York"
	for i := range f.Daily.Data {
		d := testDay.AddDate(0, 0, i)
		f.Daily.Data[i].Time = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ny).Unix()
	}

	// 02:00 UTC on the 11th is still the evening of the 10th in New York.
	now := at(testDay.AddDate(0, 0, 1), 2, 0)
	report := newTestAssembler().Assemble(context.Background(), f, testDay, now)

	assert.Equal(t, "2024-07-10", report.Date)
	assert.NotNil(t, report.Currently)
	require.NotNil(t, report.DailySummary)
	assert.Contains(t, report.DailySummary.Forecast, "today")
}

func TestAssembler_MissingRendererHook(t *testing.T) {
	var missing []string
	a := newTestAssembler(WithMissingRendererHook(func(topic string) { missing = append(missing, topic) }))

	r := a.lookup(context.Background(), "tornado")

	assert.Empty(t, r.DailyText(models.Condition{Topic: "tornado"}, quietDay(testDay), renderContext(testDay)))
	assert.Equal(t, []string{"tornado"}, missing)

	a.lookup(context.Background(), conditions.TopicRain)
	assert.Len(t, missing, 1)
}

func TestNewAssembler_Defaults(t *testing.T) {
	a := NewAssembler(models.DefaultThresholds(), WithChooser(nil))
	assert.NotNil(t, a.choose)
	assert.Equal(t, DefaultWorkdayEndHour, a.workdayEndHour)

	a = NewAssembler(models.DefaultThresholds(), WithWorkdayEndHour(18))
	assert.Equal(t, 18, a.workdayEndHour)
}
