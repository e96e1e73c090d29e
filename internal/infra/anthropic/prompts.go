package anthropic

import (
	"fmt"
	"regexp"
	"strings"
)

var languageNames = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German",
	"it": "Italian", "pt": "Portuguese", "ru": "Russian", "ja": "Japanese",
	"ko": "Korean", "zh": "Chinese", "ar": "Arabic", "hi": "Hindi",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

func scriptSystemPrompt(language string, targetDuration float64) string {
	return fmt.Sprintf(`You are an expert in creating educational animations using the Manim library.
Generate a complete, runnable Python script using Manim that creates an educational animation based on the user's prompt.

LANGUAGE REQUIREMENT: Generate ALL text content (titles, explanations, labels) in %s.

TARGET DURATION: %.0f seconds - design the animation to match this duration.

Requirements:
1. Import necessary modules from manim
2. Create a Scene class with a descriptive name
3. Implement the construct() method with the animation logic
4. Use appropriate Manim objects (Text, MathTex, shapes)
5. Include smooth animations and transitions
6. Keep titles at the top, explanatory text on the left, graphics on the right
7. Use Text() rather than MathTex() for non-English text
8. Ensure the script is complete and runnable
9. After the final animation, print one line to stdout:
   MANIM_SCENE_TIMINGS:[{"index":0,"start":0,"duration":5}, ...]
   listing each logical section's start offset and duration in seconds.

Return ONLY the Python code, no additional text or explanations.`, languageName(language), targetDuration)
}

func refineSystemPrompt(language string) string {
	return fmt.Sprintf(`You are an expert in debugging and fixing Manim scripts.
Analyze the error message and provide a corrected version of the script.

LANGUAGE REQUIREMENT: Ensure ALL text content remains in %s. Do not change
the language of existing text when fixing errors.

Common fixes: add missing imports, fix syntax errors, correct class names and
method calls, ensure proper Manim object usage, fix indentation.

Return ONLY the corrected Python code, no additional text or explanations.`, languageName(language))
}

const detectLanguageSystemPrompt = `Detect the language of the user's prompt and return the appropriate language code.

Return one of: en, es, fr, de, it, pt, ru, ja, ko, zh, ar, hi.

Return ONLY the language code, nothing else.`

const estimateDurationSystemPrompt = `Estimate the duration of educational narration for the given prompt.

Consider topic complexity (simple: 30-45s, moderate: 45-60s, complex: 60-90s),
the amount of explanation needed, and whether mathematical concepts require
extra time.

Return ONLY a number representing seconds (e.g. 45 or 60).`

func narrationSystemPrompt(language string, videoDuration float64) string {
	return fmt.Sprintf(`You are an educational content expert. Analyze the provided animation script and
original prompt to create a clear, engaging narration for the animation.

Requirements:
1. Natural, conversational narration that explains the concepts
2. Time the narration to be spoken within %.1f seconds at 150-180 words per minute
3. Explain what is happening visually
4. Short, clear sentences suited to text-to-speech delivery
5. Write the narration in %s
6. Return ONLY the narration text, no additional formatting or explanations`, videoDuration, languageName(language))
}

var codeBlockPattern = regexp.MustCompile("(?s)```(?:python)?\\s*\n?(.*?)\n?```")

// extractCodeBlock strips markdown fences when the model wraps the script in
// one; plain responses pass through unchanged.
func extractCodeBlock(text string) string {
	if m := codeBlockPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// validateScript is a structural sanity check, not an execution test: the
// render stage is the real arbiter.
func validateScript(script string) error {
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("model returned an empty script")
	}
	if !strings.Contains(script, "from manim") && !strings.Contains(script, "import manim") {
		return fmt.Errorf("script does not import manim")
	}
	if !strings.Contains(script, "class ") || !strings.Contains(script, "def construct") {
		return fmt.Errorf("script does not define a Scene with a construct method")
	}
	return nil
}
