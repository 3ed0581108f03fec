// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/datasets"
	"github.com/pdiddy/research-agent/pkg/types"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets [idea-id]",
	Short: "Find candidate datasets for a research idea",
	Long: `Datasets derives search queries from a stored idea and fans them out
across data.gov, the Hugging Face hub, Kaggle, and AI suggestions. Matches
are deduplicated, scored for relevance, and the best kept. Kaggle requires
credentials the public endpoint rarely grants; its failures are logged and
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasets,
}

func init() {
	datasetsCmd.Flags().Int("max-queries", 0, "maximum search queries per idea (default 7)")
	datasetsCmd.Flags().Int("max-results", 0, "maximum datasets to keep (default 10)")
	datasetsCmd.Flags().Duration("delay", 0, "delay between queries (default 1s)")
	datasetsCmd.Flags().String("datagov-key", "", "data.gov API key (default: datagov-api-key secret)")
	addAIFlags(datasetsCmd)

	rootCmd.AddCommand(datasetsCmd)
}

func datasetsConfig(cmd *cobra.Command) types.DatasetsConfig {
	maxQueries, _ := cmd.Flags().GetInt("max-queries")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	key, _ := cmd.Flags().GetString("datagov-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.DatasetsConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		AIConfig:      aiConfig(cmd),
		MaxQueries:    maxQueries,
		MaxResults:    maxResults,
		QueryDelay:    delay,
		DataGovAPIKey: secretDefault("datagov-api-key", key),
	}
}

func datasetBackends(cmd *cobra.Command, client ai.Client, cfg types.DatasetsConfig) []datasets.Backend {
	httpClient := newHTTPClient(cmd)
	return []datasets.Backend{
		&datasets.DataGovBackend{Client: httpClient, UserAgent: cfg.UserAgent, APIKey: cfg.DataGovAPIKey},
		&datasets.HuggingFaceBackend{Client: httpClient, UserAgent: cfg.UserAgent},
		&datasets.KaggleBackend{Client: httpClient, UserAgent: cfg.UserAgent},
		&datasets.AISuggestBackend{AI: client},
	}
}

func runDatasets(cmd *cobra.Command, args []string) error {
	ideaID, err := parseIdeaID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := datasetsConfig(cmd)
	client := newAIClient(cmd)
	finder := datasets.New(client, st, datasetBackends(cmd, client, cfg), cfg)

	_, err = finder.FindForIdea(context.Background(), ideaID, os.Stdout)
	return err
}
