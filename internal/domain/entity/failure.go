package entity

import (
	"errors"
	"fmt"
)

// FailureKind classifies a terminal job failure by the stage that produced it.
type FailureKind string

const (
	FailInvalidRequest   FailureKind = "InvalidRequest"
	FailScriptGeneration FailureKind = "ScriptGenerationFailed"
	FailRender           FailureKind = "RenderFailed"
	FailRenderTimeout    FailureKind = "RenderTimeout"
	FailRenderNoOutput   FailureKind = "RenderOutputMissing"
	FailNarration        FailureKind = "NarrationFailed"
	FailSync             FailureKind = "SyncFailed"
	FailConfiguration    FailureKind = "ConfigurationError"
)

// StageError carries the failure kind plus a message safe to show callers.
// The wrapped cause keeps the raw upstream detail for logs only.
type StageError struct {
	Kind    FailureKind
	Message string
	cause   error
}

func NewStageError(kind FailureKind, message string, cause error) *StageError {
	return &StageError{Kind: kind, Message: message, cause: cause}
}

func (e *StageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *StageError) Unwrap() error { return e.cause }

// KindOf extracts the failure kind from err. Errors without a StageError in
// their chain report the given fallback.
func KindOf(err error, fallback FailureKind) FailureKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return fallback
}

// PublicMessage returns the caller-safe description of err. Raw error text
// from subprocesses and upstream APIs stays out of API responses.
func PublicMessage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal error"
}
