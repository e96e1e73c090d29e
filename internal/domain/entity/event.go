package entity

import "github.com/google/uuid"

// JobStatusEvent is the outbound message published on every job status
// change when an event broker is configured.
type JobStatusEvent struct {
	JobID       uuid.UUID   `json:"job_id"`
	Status      JobStatus   `json:"status"`
	VideoURL    string      `json:"video_url,omitempty"`
	FailureKind FailureKind `json:"failure_kind,omitempty"`
	Error       string      `json:"error,omitempty"`
}
