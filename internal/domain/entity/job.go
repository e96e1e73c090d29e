package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending       JobStatus = "pending"
	JobStatusScriptGen     JobStatus = "generating_script"
	JobStatusRendering     JobStatus = "rendering"
	JobStatusSynchronizing JobStatus = "synchronizing_audio"
	JobStatusDone          JobStatus = "done"
	JobStatusFailed        JobStatus = "failed"
)

// stageRank orders the forward-only pipeline. Terminal failure is reachable
// from any non-terminal stage.
var stageRank = map[JobStatus]int{
	JobStatusPending:       0,
	JobStatusScriptGen:     1,
	JobStatusRendering:     2,
	JobStatusSynchronizing: 3,
	JobStatusDone:          4,
}

func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// GenerationJob is one end-to-end animation generation request and its
// lifecycle. Only the orchestrator mutates it, through the methods below.
type GenerationJob struct {
	ID      uuid.UUID
	Request GenerationRequest
	// User is the authenticated submitter, empty for anonymous requests.
	User        string
	Status      JobStatus
	VideoPath   string
	FailureKind FailureKind
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func NewJob(req GenerationRequest) *GenerationJob {
	now := time.Now().UTC()
	return &GenerationJob{
		ID:        uuid.New(),
		Request:   req,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance moves the job to a later stage. Regressions and transitions out of
// a terminal state are refused, which keeps status monotonic even if a
// caller misbehaves.
func (j *GenerationJob) Advance(next JobStatus) bool {
	if j.Status.Terminal() {
		return false
	}
	if next == JobStatusFailed || stageRank[next] <= stageRank[j.Status] {
		return false
	}
	j.Status = next
	j.UpdatedAt = time.Now().UTC()
	return true
}

func (j *GenerationJob) Complete(videoPath string) bool {
	if !j.Advance(JobStatusDone) {
		return false
	}
	now := j.UpdatedAt
	j.VideoPath = videoPath
	j.CompletedAt = &now
	return true
}

func (j *GenerationJob) Fail(kind FailureKind, message string) bool {
	if j.Status.Terminal() {
		return false
	}
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.FailureKind = kind
	j.Error = message
	j.UpdatedAt = now
	j.CompletedAt = &now
	return true
}
