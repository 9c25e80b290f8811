package narrative

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"weather-narrator/internal/models"
)

// DayPlaceholder is replaced with the day-relative phrase of a report.
const DayPlaceholder = "{day}"

var newlines = regexp.MustCompile(`\s*\n\s*`)

// DayPhrase returns "today", "tomorrow" or the weekday name of date,
// relative to the calendar day of now.
func DayPhrase(date, now time.Time) string {
	switch {
	case models.SameDay(now, date):
		return "today"
	case models.SameDay(now.AddDate(0, 0, 1), date):
		return "tomorrow"
	default:
		return date.In(now.Location()).Weekday().String()
	}
}

// FormatHour renders the clock hour of t as "2 pm" or "11 am".
func FormatHour(t time.Time) string {
	return t.Format("3 pm")
}

// SubstituteDay fills every day placeholder in text.
func SubstituteDay(text, day string) string {
	return strings.ReplaceAll(text, DayPlaceholder, day)
}

// joinSentences joins non-empty fragments with single spaces and collapses
// embedded newlines.
func joinSentences(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return newlines.ReplaceAllString(strings.Join(kept, " "), " ")
}

func round(v float64) int {
	return int(math.Round(v))
}

func percent(fraction float64) int {
	return round(fraction * 100)
}

func degrees(v float64) string {
	return fmt.Sprintf("%d degrees", round(v))
}
