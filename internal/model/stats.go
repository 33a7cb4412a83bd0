package model

import "time"

// DepartmentConfidence accumulates classifier confidence per department so
// an average can be derived.
type DepartmentConfidence struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// HistoricalStats are the all-time counters owned by the backend. The
// controller only reads them and triggers incremental updates.
type HistoricalStats struct {
	TotalProcessed         int                             `json:"totalProcessed"`
	TotalReceived          int                             `json:"totalReceived"`
	ByDepartment           map[string]int                  `json:"byDepartment"`
	ConfidenceByDepartment map[string]DepartmentConfidence `json:"confidenceByDepartment,omitempty"`
	LastUpdated            time.Time                       `json:"lastUpdated"`
}
