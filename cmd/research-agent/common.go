// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "research-agent/0.1"
	defaultModel     = "claude-sonnet-4-5-20250929"
)

// openStore opens the SQLite store under --data-dir.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	return store.Open(types.StoreConfig{DataDir: dataDir})
}

// newHTTPClient builds an HTTP client from the --timeout flag.
func newHTTPClient(cmd *cobra.Command) *http.Client {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// aiConfig builds the AI config from flags and the anthropic-api-key
// secret.
func aiConfig(cmd *cobra.Command) types.AIConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = defaultModel
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	return types.AIConfig{
		Model:     model,
		APIKey:    secretDefault("anthropic-api-key", apiKey),
		MaxTokens: maxTokens,
	}
}

// newAIClient builds the Claude client shared by the AI-backed stages.
func newAIClient(cmd *cobra.Command) *ai.ClaudeClient {
	return ai.NewClaudeClient(aiConfig(cmd), newHTTPClient(cmd))
}

// addAIFlags registers the flags every AI-backed subcommand shares.
func addAIFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", defaultModel, "Anthropic model name")
	cmd.Flags().String("api-key", "", "Anthropic API key (default: anthropic-api-key secret)")
	cmd.Flags().Int("max-tokens", 0, "maximum response tokens (0 = client default)")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
}
