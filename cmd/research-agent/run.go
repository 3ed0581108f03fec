// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/analyze"
	"github.com/pdiddy/research-agent/internal/collect"
	"github.com/pdiddy/research-agent/internal/datasets"
	"github.com/pdiddy/research-agent/internal/fulltext"
	"github.com/pdiddy/research-agent/internal/ideas"
	"github.com/pdiddy/research-agent/internal/patterns"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full research pipeline",
	Long: `Run executes every stage in order: collect, analyze, patterns, ideas,
datasets, and report. Stage flags mirror the individual subcommands; the
report lands in the data directory.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Int("from", time.Now().Year()-5, "earliest publication year")
	runCmd.Flags().Int("to", time.Now().Year(), "latest publication year")
	runCmd.Flags().StringSlice("journals", nil, "journal codes to collect (default: all registered)")
	runCmd.Flags().Int("max", 50, "maximum papers per journal per source")
	runCmd.Flags().Duration("delay", 0, "delay between API requests (default 1s)")
	runCmd.Flags().Bool("download-pdfs", false, "download open-access PDFs")
	runCmd.Flags().String("mailto", "", "contact email for polite API access (default: openalex-email secret)")
	runCmd.Flags().Int("limit", 0, "maximum papers to analyze (0 = all)")
	runCmd.Flags().Int("top", 0, "top papers for patterns and idea context (0 = defaults)")
	runCmd.Flags().Int("max-queries", 0, "maximum dataset queries per idea (default 7)")
	runCmd.Flags().Int("max-results", 0, "maximum datasets to keep per idea (default 10)")
	runCmd.Flags().String("datagov-key", "", "data.gov API key (default: datagov-api-key secret)")
	runCmd.Flags().Duration("stage-delay", 0, "pause between pipeline stages")
	addAIFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	httpClient := newHTTPClient(cmd)
	aiClient := newAIClient(cmd)

	collectCfg := collectConfig(cmd)
	collector := &collect.Collector{
		Store: st,
		Backends: []collect.Backend{
			&collect.OpenAlexBackend{Client: httpClient, Email: collectCfg.Mailto},
			&collect.CrossRefBackend{Client: httpClient, Email: collectCfg.Mailto},
		},
		Downloader: &collect.PDFDownloader{
			Client:    httpClient,
			Dir:       filepath.Join(st.DataDir(), "pdfs"),
			UserAgent: collectCfg.UserAgent,
		},
		Cfg: collectCfg,
	}

	limit, _ := cmd.Flags().GetInt("limit")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	top, _ := cmd.Flags().GetInt("top")
	stageDelay, _ := cmd.Flags().GetDuration("stage-delay")

	aiCfg := aiConfig(cmd)
	analyzer := analyze.New(aiClient, st, fulltext.NewReader(), types.AnalyzeConfig{
		AIConfig:     aiCfg,
		Limit:        limit,
		RequestDelay: delay,
	})
	miner := patterns.New(aiClient, st, types.PatternsConfig{AIConfig: aiCfg, TopPapers: top})
	generator := ideas.New(aiClient, st, types.IdeasConfig{AIConfig: aiCfg, TopPapers: top, StrategyDelay: delay})

	datasetsCfg := datasetsConfig(cmd)
	finder := datasets.New(aiClient, st, datasetBackends(cmd, aiClient, datasetsCfg), datasetsCfg)

	agent := pipeline.NewAgent(st, types.PipelineConfig{StageDelay: stageDelay}, collector, analyzer, miner, generator, finder)

	result, err := agent.Run(context.Background(), os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\npipeline complete: %d papers, %d analyzed, %d patterns, %d ideas, %d datasets\n",
		result.Collected.Inserted, result.Analyzed.Analyzed, result.Patterns, result.Ideas.Generated, result.Datasets)
	return nil
}
