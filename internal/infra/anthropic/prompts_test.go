package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const validManimScript = `from manim import *

class MainScene(Scene):
    def construct(self):
        circle = Circle()
        self.play(Create(circle))
`

func TestExtractCodeBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain script", "from manim import *", "from manim import *"},
		{"python fence", "```python\nfrom manim import *\n```", "from manim import *"},
		{"bare fence", "```\nfrom manim import *\n```", "from manim import *"},
		{"fence with prose around it", "Here is the script:\n```python\nx = 1\n```\nHope this helps!", "x = 1"},
		{"surrounding whitespace", "  \nfrom manim import *\n ", "from manim import *"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractCodeBlock(tc.in))
		})
	}
}

func TestValidateScript(t *testing.T) {
	assert.NoError(t, validateScript(validManimScript))

	assert.Error(t, validateScript(""))
	assert.Error(t, validateScript("   \n  "))
	assert.Error(t, validateScript("print('no manim here')"))
	assert.Error(t, validateScript("from manim import *\nx = 1"))
}

func TestLanguageNameFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "Japanese", languageName("ja"))
	assert.Equal(t, "English", languageName("xx"))
}
