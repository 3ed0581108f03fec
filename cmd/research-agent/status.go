// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline progress counts",
	Long: `Status prints how many papers, analyses, patterns, ideas, and dataset
matches the store holds, with average scores where they exist.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.CollectStats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("papers:    %d\n", stats.Papers)
	fmt.Printf("analyses:  %d", stats.Analyses)
	if stats.Analyses > 0 {
		fmt.Printf("  (avg success %.1f)", stats.AvgSuccessScore)
	}
	fmt.Println()
	fmt.Printf("patterns:  %d\n", stats.Patterns)
	fmt.Printf("ideas:     %d", stats.Ideas)
	if stats.Ideas > 0 {
		fmt.Printf("  (avg novelty %.1f)", stats.AvgNoveltyScore)
	}
	fmt.Println()
	fmt.Printf("datasets:  %d\n", stats.Datasets)
	return nil
}
