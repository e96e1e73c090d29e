package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, reply string, status int) (*httptest.Server, *messagesRequest) {
	t.Helper()
	var captured messagesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": reply}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "test-key", "test-model", 5*time.Second, zap.NewNop())
}

func TestGenerateScriptStripsFences(t *testing.T) {
	srv, captured := newTestServer(t, "```python\n"+validManimScript+"```", http.StatusOK)
	c := newTestClient(srv.URL)

	script, err := c.GenerateScript(context.Background(), "explain circles", "en", 45)
	require.NoError(t, err)
	assert.Contains(t, script, "class MainScene")
	assert.NotContains(t, script, "```")

	assert.Equal(t, "test-model", captured.Model)
	assert.Contains(t, captured.System, "English")
	assert.Contains(t, captured.System, "45 seconds")
}

func TestGenerateScriptRejectsInvalidOutput(t *testing.T) {
	srv, _ := newTestServer(t, "sorry, I cannot help with that", http.StatusOK)
	c := newTestClient(srv.URL)

	_, err := c.GenerateScript(context.Background(), "explain circles", "en", 45)
	require.Error(t, err)
}

func TestRefineScriptSendsErrorContext(t *testing.T) {
	srv, captured := newTestServer(t, validManimScript, http.StatusOK)
	c := newTestClient(srv.URL)

	fixed, err := c.RefineScript(context.Background(), "broken script", "NameError: Circl is not defined", "en")
	require.NoError(t, err)
	assert.Contains(t, fixed, "def construct")

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "NameError")
}

func TestDetectLanguage(t *testing.T) {
	srv, _ := newTestServer(t, "es", http.StatusOK)
	c := newTestClient(srv.URL)

	lang, err := c.DetectLanguage(context.Background(), "explica el teorema de pitagoras")
	require.NoError(t, err)
	assert.Equal(t, "es", lang)
}

func TestDetectLanguageUnknownCodeDefaultsToEnglish(t *testing.T) {
	srv, _ := newTestServer(t, "klingon", http.StatusOK)
	c := newTestClient(srv.URL)

	lang, err := c.DetectLanguage(context.Background(), "nuqneH")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}

func TestEstimateDurationClamps(t *testing.T) {
	cases := []struct {
		reply string
		want  float64
	}{
		{"45", 45},
		{"10", 30},
		{"300", 90},
	}
	for _, tc := range cases {
		srv, _ := newTestServer(t, tc.reply, http.StatusOK)
		c := newTestClient(srv.URL)

		got, err := c.EstimateDuration(context.Background(), "explain calculus")
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-9)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.DetectLanguage(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}
