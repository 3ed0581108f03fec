// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/analyze"
	"github.com/pdiddy/research-agent/internal/fulltext"
	"github.com/pdiddy/research-agent/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze collected papers for methodology and success factors",
	Long: `Analyze runs every unanalyzed paper through methodology analysis and a
publishability assessment, computes a composite success score, and enriches
the paper record with extracted keywords. Paper text comes from the
downloaded PDF when available, the abstract otherwise.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("limit", 0, "maximum papers to analyze (0 = all)")
	analyzeCmd.Flags().Duration("delay", 0, "delay between AI requests (default 1s)")
	addAIFlags(analyzeCmd)

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	cfg := types.AnalyzeConfig{
		AIConfig:     aiConfig(cmd),
		Limit:        limit,
		RequestDelay: delay,
	}

	analyzer := analyze.New(newAIClient(cmd), st, fulltext.NewReader(), cfg)
	_, err = analyzer.Run(context.Background(), os.Stdout)
	return err
}
