package dto

import "time"

// APIResponse is the envelope for every successful response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// BatchResult summarizes a batch fan-out. Batch operations are all-or-nothing,
// so FailedCount is zero whenever the call succeeds.
type BatchResult struct {
	Batch        string `json:"batch" example:"JEE-2025-A"`
	Date         string `json:"date,omitempty" example:"2024-01-01"`
	AppliedCount int    `json:"appliedCount" example:"24"`
	FailedCount  int    `json:"failedCount" example:"0"`
}
