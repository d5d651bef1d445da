// Package inference talks to the external generative inference collaborator
// over an OpenAI-compatible chat-completions endpoint. Calls are bounded by
// a fixed timeout and never retried; any failure is returned as *Error so
// callers can distinguish it from storage problems.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// Error is an inference-call failure: bad status, timeout, transport error,
// or a response that does not match the expected shape.
type Error struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("inference: %s (status %d)", e.Reason, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("inference: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("inference: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Client calls the chat-completions gateway.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	httpClient *http.Client
}

// NewClient builds a client with the given endpoint and a bounded request
// timeout.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system instruction plus user context and returns the raw
// model output text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{StatusCode: resp.StatusCode, Reason: "bad status"}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Reason: "read response", Err: err}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &Error{Reason: "decode response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &Error{Reason: "empty choice list"}
	}

	return decoded.Choices[0].Message.Content, nil
}

var codeFenceRegex = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*\\n?(.*?)\\n?```\\s*$")

// StripCodeFence removes optional surrounding markdown code-fence markup so
// fenced JSON payloads decode cleanly.
func StripCodeFence(s string) string {
	if m := codeFenceRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
