package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const apiVersion = "2023-06-01"

// Client talks to the Anthropic messages API. It implements the
// ScriptGenerator, LanguageDetector and NarrationWriter ports.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, system string, msgs []message, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  msgs,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call anthropic: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("anthropic %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic returned no text content")
}

// GenerateScript asks the model for a complete runnable animation script.
func (c *Client) GenerateScript(ctx context.Context, prompt, language string, targetDuration float64) (string, error) {
	system := scriptSystemPrompt(language, targetDuration)
	out, err := c.complete(ctx, system, []message{
		{Role: "user", Content: "Create an educational animation about: " + prompt},
	}, 4000)
	if err != nil {
		return "", err
	}

	script := extractCodeBlock(out)
	if err := validateScript(script); err != nil {
		return "", err
	}
	script = optimizeScript(script)
	if issues := scriptQualityIssues(script); len(issues) > 0 {
		c.logger.Warn("script layout issues remain after quality pass",
			zap.Strings("issues", issues))
	}
	c.logger.Debug("script generated", zap.Int("bytes", len(script)))
	return script, nil
}

// RefineScript feeds a render failure back to the model and asks for a
// corrected script.
func (c *Client) RefineScript(ctx context.Context, script, renderError, language string) (string, error) {
	system := refineSystemPrompt(language)
	out, err := c.complete(ctx, system, []message{
		{Role: "assistant", Content: script},
		{Role: "user", Content: "The script failed with error: " + renderError + ". Please fix this issue and provide a corrected version."},
	}, 4000)
	if err != nil {
		return "", err
	}

	fixed := extractCodeBlock(out)
	if err := validateScript(fixed); err != nil {
		return "", err
	}
	return optimizeScript(fixed), nil
}

// DetectLanguage classifies the prompt into one of the supported language
// codes, defaulting to English for anything else.
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	out, err := c.complete(ctx, detectLanguageSystemPrompt, []message{
		{Role: "user", Content: "Detect language: " + text},
	}, 50)
	if err != nil {
		return "", err
	}
	code := strings.ToLower(strings.TrimSpace(out))
	if _, ok := languageNames[code]; !ok {
		code = "en"
	}
	return code, nil
}

// EstimateDuration asks the model how long the narration should run, clamped
// to a sane range.
func (c *Client) EstimateDuration(ctx context.Context, prompt string) (float64, error) {
	out, err := c.complete(ctx, estimateDurationSystemPrompt, []message{
		{Role: "user", Content: "Estimate narration duration for: " + prompt},
	}, 50)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration estimate %q: %w", out, err)
	}
	if seconds < 30 {
		seconds = 30
	}
	if seconds > 90 {
		seconds = 90
	}
	return seconds, nil
}

// Narration derives spoken narration text from the generated script.
func (c *Client) Narration(ctx context.Context, script, prompt, language string, videoDuration float64) (string, error) {
	system := narrationSystemPrompt(language, videoDuration)
	out, err := c.complete(ctx, system, []message{
		{Role: "user", Content: fmt.Sprintf("Original prompt: %s\n\nAnimation script:\n%s\n\nCreate educational narration for this animation:", prompt, script)},
	}, 2000)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("model returned empty narration")
	}
	return out, nil
}
