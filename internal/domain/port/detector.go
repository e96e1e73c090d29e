package port

import "context"

// LanguageDetector classifies the language of a prompt. The detection
// algorithm is deliberately pluggable; callers only rely on receiving an
// ISO-639-1-style code.
type LanguageDetector interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
}
