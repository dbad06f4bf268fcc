// Package openai implements llm.Generator over the OpenAI chat/completions
// wire protocol. Authentication and HTTP failures surface as ErrTransport;
// this layer never retries.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/form-agent/internal/common"
)

// Generate performs a plain text completion.
func (c *Client) Generate(ctx context.Context, prompt, system string) (string, error) {
	if system == "" {
		system = "You are a helpful assistant."
	}
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
	}
	if c.cfg.MaxTokens > 0 {
		body["max_tokens"] = c.cfg.MaxTokens
	}
	return c.chat(ctx, body)
}

// GenerateStructured asks for a JSON object response; the schema rides along
// as a trailing system message, matching how the provider's json_object mode
// is steered.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema map[string]any, system string) (string, error) {
	if system == "" {
		system = "You are a helpful assistant."
	}
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}
	if c.cfg.MaxTokens > 0 {
		body["max_tokens"] = c.cfg.MaxTokens
	}
	return c.chat(ctx, body)
}

func (c *Client) chat(ctx context.Context, body map[string]any) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("openai.chat.start", "req_id", rid, "model", c.cfg.Model)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("openai.chat.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewAppError("OPENAI_TRANSPORT", "chat completion failed", fmt.Errorf("%w: %w", common.ErrTransport, err))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("openai.chat.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return "", common.NewAppError("OPENAI_TRANSPORT", "decode openai response", fmt.Errorf("%w: %w", common.ErrTransport, err))
	}
	if len(cc.Choices) == 0 {
		c.log.Error("openai.chat.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return "", common.NewAppError("OPENAI_TRANSPORT", "no choices in openai response", common.ErrTransport)
	}

	c.log.Info("openai.chat.ok", "req_id", rid,
		"content_len", len(cc.Choices[0].Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds())
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
