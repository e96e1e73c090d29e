package anthropic

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeScriptClampsCoordinates(t *testing.T) {
	script := "circle.shift(3*RIGHT + 2.5*UP)\nsquare.shift(1.2*LEFT + 4*DOWN)"
	got := optimizeScript(script)

	assert.Contains(t, got, "1.8*RIGHT")
	assert.Contains(t, got, "2*UP")
	assert.Contains(t, got, "1.2*LEFT")
	assert.Contains(t, got, "2*DOWN")
	assert.NotContains(t, got, "3*RIGHT")
	assert.NotContains(t, got, "4*DOWN")
}

func TestOptimizeScriptClampsShapeSizes(t *testing.T) {
	script := "Square(side_length=3.0)\nCircle(radius=2.5)\nCircle(radius=0.8)"
	got := optimizeScript(script)

	assert.Contains(t, got, "side_length=1.6")
	assert.Contains(t, got, "radius=1.3")
	assert.Contains(t, got, "radius=0.8")
}

func TestOptimizeScriptAddsArrangeBuffer(t *testing.T) {
	got := optimizeScript("group.arrange(DOWN)\nrow.arrange(RIGHT, buff=0.2)")

	assert.Contains(t, got, "arrange(DOWN, buff=0.4)")
	// Calls with an explicit buffer stay untouched.
	assert.Contains(t, got, "arrange(RIGHT, buff=0.2)")
}

func TestOptimizeScriptLeavesSafeValuesAlone(t *testing.T) {
	script := "dot.shift(1.5*RIGHT)\nSquare(side_length=1.0)"
	assert.Equal(t, script, optimizeScript(script))
}

func TestScriptQualityIssues(t *testing.T) {
	clean := "dot.shift(1.0*RIGHT)\ngroup.arrange(DOWN, buff=0.4)"
	assert.Empty(t, scriptQualityIssues(clean))

	crowded := "dot.shift(1.7*RIGHT)\nSquare(side_length=1.4)\ngroup.arrange(DOWN)"
	issues := scriptQualityIssues(crowded)
	require.Len(t, issues, 3)
}

func TestGenerateScriptAppliesQualityPass(t *testing.T) {
	raw := validManimScript + "\ncircle.shift(5*RIGHT)\nitems.arrange(DOWN)\n"
	srv, _ := newTestServer(t, "```python\n"+raw+"```", http.StatusOK)
	c := newTestClient(srv.URL)

	script, err := c.GenerateScript(context.Background(), "explain circles", "en", 45)
	require.NoError(t, err)
	assert.Contains(t, script, "1.8*RIGHT")
	assert.Contains(t, script, "arrange(DOWN, buff=0.4)")
}

func TestRefineScriptAppliesQualityPass(t *testing.T) {
	raw := validManimScript + "\nCircle(radius=9)\n"
	srv, _ := newTestServer(t, raw, http.StatusOK)
	c := newTestClient(srv.URL)

	fixed, err := c.RefineScript(context.Background(), "broken", "SyntaxError", "en")
	require.NoError(t, err)
	assert.Contains(t, fixed, "radius=1.3")
}
