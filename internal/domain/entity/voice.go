package entity

// Voice is a TTS voice identifier.
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"

	DefaultVoice = VoiceAlloy
)

func (v Voice) Valid() bool {
	switch v {
	case VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer:
		return true
	}
	return false
}

// voiceByLanguage is fixed at build time and never mutated.
var voiceByLanguage = map[string]Voice{
	"en": VoiceAlloy,
	"es": VoiceNova,
	"fr": VoiceShimmer,
	"de": VoiceOnyx,
	"it": VoiceNova,
	"pt": VoiceNova,
	"ru": VoiceEcho,
	"ja": VoiceShimmer,
	"ko": VoiceShimmer,
	"zh": VoiceNova,
	"ar": VoiceFable,
	"hi": VoiceNova,
}

// SupportedLanguages reports the language codes with a dedicated voice
// mapping, in no particular order.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(voiceByLanguage))
	for code := range voiceByLanguage {
		langs = append(langs, code)
	}
	return langs
}

// VoiceForLanguage resolves the narration voice. An explicit non-default
// requested voice always wins; otherwise the language mapping applies, and
// unmapped languages fall back to the default voice. Never fails.
func VoiceForLanguage(language string, requested Voice) Voice {
	if requested != "" && requested != DefaultVoice {
		return requested
	}
	if v, ok := voiceByLanguage[language]; ok {
		return v
	}
	return DefaultVoice
}
