package port

import "context"

// ScriptGenerator turns an educational prompt into an animation script for
// the rendering engine. RefineScript feeds a render error back to the model
// for another attempt.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, prompt, language string, targetDuration float64) (string, error)
	RefineScript(ctx context.Context, script, renderError, language string) (string, error)
}

// NarrationWriter derives narration from a generated script.
type NarrationWriter interface {
	Narration(ctx context.Context, script, prompt, language string, videoDuration float64) (string, error)
	EstimateDuration(ctx context.Context, prompt string) (float64, error)
}
