package model

import "time"

// Well-known status values reported by the parsing-status endpoint.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
)

// StatusRecord is the stored completion state for one session id.
// Overwritten whole on every set; Timestamp always reflects the most recent set.
type StatusRecord struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResult is what a status lookup returns over the wire. Missing and
// expired records are reported as synthetic results, not as errors.
type StatusResult struct {
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Timestamp int64  `json:"timestamp,omitempty"` // unix millis, zero for synthetic results
}

// PendingResult is returned for ids that were never set (or already purged).
func PendingResult() StatusResult {
	return StatusResult{Status: StatusPending, Completed: false}
}

// ExpiredResult is returned once for a record whose age reached the TTL.
func ExpiredResult() StatusResult {
	return StatusResult{Status: StatusExpired, Completed: false}
}
