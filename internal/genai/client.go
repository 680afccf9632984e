// Package genai calls the external text-generation endpoint and normalizes
// whatever shape it answers with into plain reply text.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Generation options are fixed server-side; callers cannot tune them per
// request.
const (
	temperature     = 0.2
	maxOutputTokens = 512
)

// UpstreamError reports a non-success response from the generation service.
// The raw body is kept verbatim for diagnostics; no retry is attempted.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("genai: upstream status %d: %s", e.Status, e.Body)
}

// Client is a thin HTTP client for the generation endpoint, authenticated
// with a server-held bearer credential that is never exposed to callers.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient creates a generation client. The timeout bounds the whole
// round trip; request contexts cancel it earlier.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate sends the prompt and returns the normalized reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":             c.model,
		"input":             prompt,
		"temperature":       temperature,
		"max_output_tokens": maxOutputTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("genai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("genai: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("genai: read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	return Normalize(body), nil
}
