// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/patterns"
	"github.com/pdiddy/research-agent/pkg/types"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Mine success patterns from the top analyzed papers",
	Long: `Patterns examines the highest-scored papers in one AI call and records
the recurring methodology, data, theory, and topic patterns that explain
their success. Mined patterns feed idea generation.`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().Int("top", 0, "number of top papers to mine (default 30)")
	addAIFlags(patternsCmd)

	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	top, _ := cmd.Flags().GetInt("top")
	cfg := types.PatternsConfig{
		AIConfig:  aiConfig(cmd),
		TopPapers: top,
	}

	miner := patterns.New(newAIClient(cmd), st, cfg)
	_, err = miner.Run(context.Background(), os.Stdout)
	return err
}
