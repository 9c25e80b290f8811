package models

import "time"

// MonthlyAverage holds the historical average high and low temperature for a month.
type MonthlyAverage struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// ThresholdConfig holds the location-specific constants used to decide which
// conditions are worth mentioning. Index 0 of MonthlyAverages is January.
type ThresholdConfig struct {
	MonthlyAverages [12]MonthlyAverage `json:"monthlyAverages"`
	DewPointBreak   float64            `json:"dewPointBreak"`
	HumidityBreak   float64            `json:"humidityBreak"` // fraction 0-1
	WindBreak       float64            `json:"windBreak"`     // mph
	CloudBreak      float64            `json:"cloudBreak"`    // fraction 0-1
}

// Month returns the averages for the given calendar month.
func (t ThresholdConfig) Month(m time.Month) MonthlyAverage {
	return t.MonthlyAverages[int(m)-1]
}

// DefaultThresholds returns averages for a humid continental climate
// (New York City normals) with conservative break points.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		MonthlyAverages: [12]MonthlyAverage{
			{High: 39, Low: 27},
			{High: 42, Low: 29},
			{High: 50, Low: 35},
			{High: 62, Low: 45},
			{High: 72, Low: 54},
			{High: 80, Low: 64},
			{High: 85, Low: 69},
			{High: 84, Low: 68},
			{High: 76, Low: 61},
			{High: 65, Low: 50},
			{High: 54, Low: 41},
			{High: 44, Low: 32},
		},
		DewPointBreak: 65,
		HumidityBreak: 0.7,
		WindBreak:     15,
		CloudBreak:    0.75,
	}
}
