// pkg/scrapex/types.go
package scrapex

import "time"

// HealthStatus represents the health status of the scraper service.
type HealthStatus struct {
	Status    string          `json:"status"` // healthy, degraded, unhealthy
	Version   string          `json:"version"`
	Uptime    time.Duration   `json:"uptime"`
	Checks    map[string]bool `json:"checks"`
	Timestamp time.Time       `json:"timestamp"`
}

// MetricsSnapshot is a point-in-time snapshot of facade-level metrics,
// distinct from the orchestrator's own per-(domain,strategy) learning
// stats (see Client.Stats).
type MetricsSnapshot struct {
	TotalRequests       int64         `json:"total_requests"`
	SuccessfulRequests  int64         `json:"successful_requests"`
	FailedRequests      int64         `json:"failed_requests"`
	AverageResponseTime time.Duration `json:"average_response_time"`
	Timestamp           time.Time     `json:"timestamp"`
}

// ValidationError describes one invalid field in a retailer catalog.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ConfigValidationResult is the result of validating a retailer catalog
// before importing it into a Client's registry.
type ConfigValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}
