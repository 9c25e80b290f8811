package handlers

import (
	"encoding/json"
	"net/http"
)

func sectionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"kind": map[string]interface{}{"type": "string", "enum": []string{"currently", "hourly", "daily"}},
			"data": map[string]interface{}{
				"description": "Forecast record (currently, daily) or hourly records (detail)",
			},
			"conditions": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": map[string]string{"type": "string"},
			},
			"flags": map[string]interface{}{
				"type":                 "object",
				"description":          "heat/cold markers on the currently section",
				"additionalProperties": map[string]string{"type": "string"},
			},
			"forecast": map[string]string{"type": "string"},
		},
	}
}

func errorSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"error":   map[string]string{"type": "string"},
						"message": map[string]string{"type": "string"},
						"code":    map[string]string{"type": "integer"},
						"reason":  map[string]string{"type": "string"},
					},
				},
			},
		},
	}
}

func dateParameter() map[string]interface{} {
	return map[string]interface{}{
		"name":        "date",
		"in":          "query",
		"description": "today (default), tomorrow, YYYY-MM-DD, RFC3339 timestamp or Unix epoch seconds",
		"required":    false,
		"schema":      map[string]string{"type": "string"},
	}
}

func reportResponses(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"200": map[string]interface{}{
			"description": "Successful response",
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{"schema": schema},
			},
		},
		"400": errorSchema("Rejected request (missing_api_key, invalid_coordinates, invalid_date, date_in_past, date_too_far)"),
		"502": errorSchema("Forecast provider failure (transport_failure, upstream_status, invalid_body)"),
		"503": errorSchema("Forecast provider circuit open (circuit_open)"),
	}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Weather Narrator API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Weather Narrator API",
			"description": "Short natural-language weather reports built from a Dark Sky compatible forecast",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/forecast": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get a weather report",
					"description": "Currently, daily summary and hour-by-hour detail sections for the requested date. Sections outside their window are null.",
					"parameters":  []map[string]interface{}{dateParameter()},
					"responses": reportResponses(map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"date":         map[string]string{"type": "string", "format": "date"},
							"currently":    sectionSchema(),
							"dailySummary": sectionSchema(),
							"detail":       sectionSchema(),
						},
					}),
				},
			},
			"/api/forecast/{section}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Get one report section",
					"parameters": []map[string]interface{}{
						{
							"name":     "section",
							"in":       "path",
							"required": true,
							"schema":   map[string]interface{}{"type": "string", "enum": []string{"currently", "daily", "detail"}},
						},
						dateParameter(),
					},
					"responses": reportResponses(sectionSchema()),
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API is running and report the provider circuit breaker state",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is up",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status":   map[string]string{"type": "string"},
											"version":  map[string]string{"type": "string"},
											"provider": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
