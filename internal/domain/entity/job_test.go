package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest() GenerationRequest {
	req := GenerationRequest{Prompt: "explain the pythagorean theorem"}
	req.ApplyDefaults()
	return req
}

func TestNewJobStartsPending(t *testing.T) {
	job := NewJob(newTestRequest())

	assert.NotEqual(t, "", job.ID.String())
	assert.Equal(t, JobStatusPending, job.Status)
	assert.False(t, job.Status.Terminal())
	assert.Nil(t, job.CompletedAt)
}

func TestJobAdvanceIsForwardOnly(t *testing.T) {
	job := NewJob(newTestRequest())

	require.True(t, job.Advance(JobStatusScriptGen))
	require.True(t, job.Advance(JobStatusRendering))

	// Regressions are ignored and leave the status untouched.
	assert.False(t, job.Advance(JobStatusScriptGen))
	assert.Equal(t, JobStatusRendering, job.Status)

	require.True(t, job.Advance(JobStatusSynchronizing))
	assert.Equal(t, JobStatusSynchronizing, job.Status)
}

func TestJobAdvanceCanSkipAudioStage(t *testing.T) {
	job := NewJob(newTestRequest())

	require.True(t, job.Advance(JobStatusScriptGen))
	require.True(t, job.Advance(JobStatusRendering))
	assert.True(t, job.Complete("/videos/out.mp4"))
	assert.Equal(t, JobStatusDone, job.Status)
}

func TestJobCompleteSetsArtifact(t *testing.T) {
	job := NewJob(newTestRequest())
	job.Advance(JobStatusScriptGen)

	require.True(t, job.Complete("/videos/final.mp4"))
	assert.Equal(t, JobStatusDone, job.Status)
	assert.Equal(t, "/videos/final.mp4", job.VideoPath)
	require.NotNil(t, job.CompletedAt)
	assert.True(t, job.Status.Terminal())
}

func TestJobFailFromAnyStage(t *testing.T) {
	for _, stage := range []JobStatus{JobStatusPending, JobStatusScriptGen, JobStatusRendering, JobStatusSynchronizing} {
		job := NewJob(newTestRequest())
		job.Advance(stage)

		require.True(t, job.Fail(FailRenderTimeout, "rendering exceeded the time limit"), "stage %s", stage)
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Equal(t, FailRenderTimeout, job.FailureKind)
		assert.Equal(t, "rendering exceeded the time limit", job.Error)
		assert.True(t, job.Status.Terminal())
	}
}

func TestJobTerminalStatesAreFrozen(t *testing.T) {
	done := NewJob(newTestRequest())
	done.Complete("/videos/a.mp4")
	assert.False(t, done.Advance(JobStatusRendering))
	assert.False(t, done.Fail(FailRender, "late failure"))
	assert.Equal(t, JobStatusDone, done.Status)

	failed := NewJob(newTestRequest())
	failed.Fail(FailScriptGeneration, "model refused")
	assert.False(t, failed.Complete("/videos/b.mp4"))
	assert.Equal(t, JobStatusFailed, failed.Status)
}

func TestNewJobsGetUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		job := NewJob(newTestRequest())
		id := job.ID.String()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
