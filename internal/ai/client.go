// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai provides the shared Claude API client used by the analysis,
// pattern mining, idea generation, and dataset matching stages. Stages
// depend only on the Client interface: given role instructions and a task
// prompt, return the JSON block from the model's reply, or fail.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// anthropicAPIURL is the Claude API endpoint. Package-level var for test
// substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

const defaultMaxTokens = 4096

// Client is the inference capability every AI stage depends on.
type Client interface {
	// CompleteJSON sends role instructions plus a task prompt and returns
	// the raw JSON block extracted from the model's text reply.
	CompleteJSON(ctx context.Context, system, prompt string, temperature float64) ([]byte, error)
}

// ClaudeClient calls the Claude Messages API.
type ClaudeClient struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewClaudeClient builds a client from cfg. A nil httpClient falls back to
// http.DefaultClient.
func NewClaudeClient(cfg types.AIConfig, httpClient *http.Client) *ClaudeClient {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &ClaudeClient{cfg: cfg, client: httpClient}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CompleteJSON implements Client.
func (c *ClaudeClient) CompleteJSON(ctx context.Context, system, prompt string, temperature float64) ([]byte, error) {
	reqBody := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		System:      system,
		Temperature: temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		return ExtractJSON(block.Text)
	}

	return nil, fmt.Errorf("no text content in Claude API response")
}

// ExtractJSON returns the outermost JSON object or array embedded in text.
// Models frequently wrap JSON in prose or code fences, so the block is
// located by its first opening brace and last matching close.
func ExtractJSON(text string) ([]byte, error) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start := objStart
	closer := byte('}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start = arrStart
		closer = ']'
	}
	if start < 0 {
		return nil, fmt.Errorf("no JSON block in response")
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return nil, fmt.Errorf("unterminated JSON block in response")
	}

	block := []byte(text[start : end+1])
	if !json.Valid(block) {
		return nil, fmt.Errorf("response JSON block is not valid JSON")
	}
	return block, nil
}
