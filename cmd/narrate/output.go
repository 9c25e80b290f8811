package main

import (
	"encoding/json"
	"fmt"
	"io"

	"weather-narrator/internal/models"
)

var sectionOrder = []struct {
	name  string
	title string
}{
	{models.SectionCurrently, "Right now"},
	{models.SectionDaily, "Daily summary"},
	{models.SectionDetail, "Hour by hour"},
}

// printReport writes the report as text or JSON. With only set, just that
// section is written.
func printReport(w io.Writer, report *models.Report, asJSON bool, only string) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if only != "" {
			s, _ := report.SectionNamed(only)
			return enc.Encode(s)
		}
		return enc.Encode(report)
	}

	printed := 0
	for _, entry := range sectionOrder {
		if only != "" && entry.name != only {
			continue
		}
		s, _ := report.SectionNamed(entry.name)
		if s == nil || s.Forecast == "" {
			continue
		}
		if only == "" {
			if _, err := fmt.Fprintf(w, "%s:\n", entry.title); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", s.Forecast); err != nil {
			return err
		}
		printed++
	}

	if printed == 0 {
		_, err := fmt.Fprintf(w, "No forecast text is available for %s.\n", report.Date)
		return err
	}
	return nil
}
