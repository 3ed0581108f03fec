// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the research report from the current data",
	Long: `Report assembles the top papers, mined patterns, and generated ideas
into report.txt and report.yaml in the data directory, and prints the
text report.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := pipeline.BuildReport(context.Background(), st)
	if err != nil {
		return err
	}

	path, err := report.WriteFiles(st.DataDir())
	if err != nil {
		return err
	}

	fmt.Print(report.Text())
	fmt.Printf("\nwritten to %s\n", path)
	return nil
}
