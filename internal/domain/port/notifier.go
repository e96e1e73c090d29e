package port

import "context"

// FailureNotifier alerts an operator address when a job fails terminally.
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, jobID string, prompt string, errorMsg string) error
}
