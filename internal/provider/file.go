package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"weather-narrator/internal/models"
)

// Decode reads one forecast payload from r.
func Decode(r io.Reader) (*models.Forecast, error) {
	var forecast models.Forecast
	if err := json.NewDecoder(r).Decode(&forecast); err != nil {
		return nil, &models.UpstreamError{
			Code:    models.CodeInvalidBody,
			Message: "forecast payload is not valid JSON",
			Err:     err,
		}
	}
	return &forecast, nil
}

// ReadFile loads a saved forecast payload, such as a captured provider response.
func ReadFile(path string) (*models.Forecast, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
