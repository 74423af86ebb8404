package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

var ErrNotConfigured = errors.New("advice client not configured")

// GeminiClient talks to a Gemini-compatible completion endpoint and coerces
// the reply into the advice shape. Any parse failure surfaces as an error so
// the caller can fall back locally.
type GeminiClient struct {
	url        string
	key        string
	httpClient *http.Client
}

// NewGeminiClient returns nil when the endpoint is not configured, letting
// the service skip the remote path entirely.
func NewGeminiClient(url, key string) *GeminiClient {
	if url == "" || key == "" {
		return nil
	}
	return &GeminiClient{
		url: url,
		key: key,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *GeminiClient) GetTaskAdvice(ctx context.Context, task *domain.Task) (*domain.TaskAdvice, error) {
	prompt := buildPrompt(task)

	reqBody, _ := json.Marshal(map[string]interface{}{"prompt": prompt})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("advice request failed (%d): %s", resp.StatusCode, string(body))
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	text := extractText(parsed)
	if text == "" {
		return nil, errors.New("empty advice reply")
	}

	return parseAdvice(text)
}

func buildPrompt(task *domain.Task) string {
	var b strings.Builder
	b.WriteString("You are a productivity coach. Reply with a single JSON object with keys ")
	b.WriteString(`"overview", "key_points", "actionable_steps", "obstacles", "time_estimate", "reasoning". `)
	fmt.Fprintf(&b, "The task: %q (category %s, priority %d/3", task.Title, task.Category, task.Priority)
	if task.EstimatedMinutes > 0 {
		fmt.Fprintf(&b, ", estimated %d minutes", task.EstimatedMinutes)
	}
	b.WriteString(").")
	if task.Notes != "" {
		fmt.Fprintf(&b, " Notes: %s", task.Notes)
	}
	return b.String()
}

// extractText tries the common reply keys of Gemini-compatible gateways.
func extractText(parsed map[string]interface{}) string {
	for _, key := range []string{"output", "response", "text"} {
		if out, ok := parsed[key].(string); ok && out != "" {
			return out
		}
	}

	if choices, ok := parsed["choices"].([]interface{}); ok && len(choices) > 0 {
		if first, ok := choices[0].(map[string]interface{}); ok {
			if t, ok := first["text"].(string); ok && t != "" {
				return t
			}
			if m, ok := first["message"].(map[string]interface{}); ok {
				if t, ok := m["content"].(string); ok && t != "" {
					return t
				}
			}
		}
	}

	return ""
}

// parseAdvice decodes the model reply, tolerating markdown code fences.
func parseAdvice(text string) (*domain.TaskAdvice, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var advice domain.TaskAdvice
	if err := json.Unmarshal([]byte(text), &advice); err != nil {
		return nil, fmt.Errorf("unparseable advice reply: %w", err)
	}
	if advice.Overview == "" {
		return nil, errors.New("advice reply missing overview")
	}

	return &advice, nil
}
