// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the research stages end to end: collect
// papers, analyze them, mine success patterns, generate ideas, match
// datasets to each idea, and write the final report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-agent/internal/analyze"
	"github.com/pdiddy/research-agent/internal/collect"
	"github.com/pdiddy/research-agent/internal/ideas"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Stage interfaces keep the agent testable without live APIs.
type (
	CollectStage interface {
		Run(ctx context.Context, w io.Writer) (collect.Summary, error)
	}
	AnalyzeStage interface {
		Run(ctx context.Context, w io.Writer) (analyze.Summary, error)
	}
	PatternStage interface {
		Run(ctx context.Context, w io.Writer) ([]types.SuccessPattern, error)
	}
	IdeaStage interface {
		Generate(ctx context.Context, w io.Writer) (ideas.Summary, error)
	}
	DatasetStage interface {
		FindForIdea(ctx context.Context, ideaID int64, w io.Writer) ([]types.DatasetCandidate, error)
	}
)

// Agent drives the full pipeline.
type Agent struct {
	store     *store.Store
	cfg       types.PipelineConfig
	collector CollectStage
	analyzer  AnalyzeStage
	miner     PatternStage
	generator IdeaStage
	finder    DatasetStage
}

// NewAgent assembles the pipeline from its stages.
func NewAgent(st *store.Store, cfg types.PipelineConfig, collector CollectStage, analyzer AnalyzeStage, miner PatternStage, generator IdeaStage, finder DatasetStage) *Agent {
	return &Agent{
		store:     st,
		cfg:       cfg,
		collector: collector,
		analyzer:  analyzer,
		miner:     miner,
		generator: generator,
		finder:    finder,
	}
}

// Result holds per-stage outcomes of one pipeline run.
type Result struct {
	Collected collect.Summary
	Analyzed  analyze.Summary
	Patterns  int
	Ideas     ideas.Summary
	Datasets  int
	Report    string
}

// Run executes every stage in order. Stage failures abort the run;
// per-idea dataset failures are logged and skipped.
func (a *Agent) Run(ctx context.Context, w io.Writer) (Result, error) {
	var result Result

	fmt.Fprintln(w, "== collect ==")
	collected, err := a.collector.Run(ctx, w)
	if err != nil {
		return result, fmt.Errorf("collect stage: %w", err)
	}
	result.Collected = collected
	a.pause()

	fmt.Fprintln(w, "\n== analyze ==")
	analyzed, err := a.analyzer.Run(ctx, w)
	if err != nil {
		return result, fmt.Errorf("analyze stage: %w", err)
	}
	result.Analyzed = analyzed
	a.pause()

	fmt.Fprintln(w, "\n== patterns ==")
	mined, err := a.miner.Run(ctx, w)
	if err != nil {
		return result, fmt.Errorf("patterns stage: %w", err)
	}
	result.Patterns = len(mined)
	a.pause()

	fmt.Fprintln(w, "\n== ideas ==")
	generated, err := a.generator.Generate(ctx, w)
	if err != nil {
		return result, fmt.Errorf("ideas stage: %w", err)
	}
	result.Ideas = generated
	a.pause()

	fmt.Fprintln(w, "\n== datasets ==")
	pending, err := a.store.IdeasByStatus(ctx, types.IdeaGenerated)
	if err != nil {
		return result, fmt.Errorf("datasets stage: %w", err)
	}
	for _, idea := range pending {
		matched, err := a.finder.FindForIdea(ctx, idea.ID, w)
		if err != nil {
			fmt.Fprintf(w, "warning: datasets for %q: %v\n", idea.Title, err)
			continue
		}
		result.Datasets += len(matched)
	}
	a.pause()

	fmt.Fprintln(w, "\n== report ==")
	report, err := BuildReport(ctx, a.store)
	if err != nil {
		return result, fmt.Errorf("report stage: %w", err)
	}
	path, err := report.WriteFiles(a.store.DataDir())
	if err != nil {
		return result, fmt.Errorf("report stage: %w", err)
	}
	result.Report = path
	fmt.Fprintf(w, "report written to %s\n", path)

	return result, nil
}

func (a *Agent) pause() {
	if a.cfg.StageDelay > 0 {
		time.Sleep(a.cfg.StageDelay)
	}
}
