package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceForLanguageMapping(t *testing.T) {
	cases := map[string]Voice{
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
	for lang, want := range cases {
		assert.Equal(t, want, VoiceForLanguage(lang, DefaultVoice), "language %s", lang)
	}
}

func TestVoiceForLanguageExplicitVoiceWins(t *testing.T) {
	// An explicit non-default voice overrides the language mapping.
	assert.Equal(t, VoiceOnyx, VoiceForLanguage("es", VoiceOnyx))
	assert.Equal(t, VoiceEcho, VoiceForLanguage("en", VoiceEcho))

	// The default voice is treated as "no preference", so the mapping applies.
	assert.Equal(t, VoiceNova, VoiceForLanguage("es", DefaultVoice))
	assert.Equal(t, VoiceNova, VoiceForLanguage("es", ""))
}

func TestVoiceForLanguageUnknownLanguageFallsBack(t *testing.T) {
	assert.Equal(t, DefaultVoice, VoiceForLanguage("sv", DefaultVoice))
	assert.Equal(t, DefaultVoice, VoiceForLanguage("", ""))
}

func TestSupportedLanguagesCoversMapping(t *testing.T) {
	langs := SupportedLanguages()
	assert.Len(t, langs, 12)
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "hi")
}

func TestVoiceValid(t *testing.T) {
	for _, v := range []Voice{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer} {
		assert.True(t, v.Valid())
	}
	assert.False(t, Voice("morgan").Valid())
	assert.False(t, Voice("").Valid())
}
