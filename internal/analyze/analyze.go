// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze annotates collected papers: it submits paper text to the
// AI client for methodology analysis and publishability assessment,
// computes composite success scores, extracts keywords, and persists
// Analysis rows. AI failures degrade per paper, never abort the stage.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/sections"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Input text budgets keep AI token cost bounded; truncation here is
// deliberate, not lossy parsing.
const (
	methodologyCharBudget = 3000
	successCharBudget     = 4000
)

// Composite score weights. TheoreticalContribution is stored on the
// analysis but carries no weight.
const (
	weightDataQuality = 0.25
	weightRigor       = 0.20
	weightNovelty     = 0.20
	weightImpact      = 0.15
)

// TextReader recovers local document text; empty string means unavailable.
type TextReader interface {
	Read(path string) string
}

// Analyzer runs the annotation stage.
type Analyzer struct {
	ai     ai.Client
	store  *store.Store
	reader TextReader
	cfg    types.AnalyzeConfig
}

// New builds an Analyzer. reader may be nil when PDF text recovery is
// unavailable; papers then fall back to their abstracts.
func New(client ai.Client, st *store.Store, reader TextReader, cfg types.AnalyzeConfig) *Analyzer {
	return &Analyzer{ai: client, store: st, reader: reader, cfg: cfg}
}

// MethodologyResult is the structured methodology summary for one paper.
type MethodologyResult struct {
	Methodology          string   `json:"methodology"`
	DataSources          []string `json:"data_sources"`
	AnalysisMethods      []string `json:"analysis_methods"`
	KeyFindings          string   `json:"key_findings"`
	TheoreticalFramework string   `json:"theoretical_framework"`
}

// successResult is the parsed publishability assessment.
type successResult struct {
	DataQuality             float64         `json:"data_quality"`
	MethodologyRigor        float64         `json:"methodology_rigor"`
	TheoreticalContribution float64         `json:"theoretical_contribution"`
	Novelty                 float64         `json:"novelty"`
	Impact                  float64         `json:"impact"`
	KeySuccessFactors       json.RawMessage `json:"key_success_factors"`
	MethodologyDetails      json.RawMessage `json:"methodology_details"`
	DataCharacteristics     json.RawMessage `json:"data_characteristics"`
	AnalyticalApproach      json.RawMessage `json:"analytical_approach"`
	Recommendations         []string        `json:"recommendations"`
}

// AnalyzeMethodology submits the methodology text (truncated to its
// budget) and returns the parsed summary, or nil on any AI failure.
func (a *Analyzer) AnalyzeMethodology(ctx context.Context, text string, w io.Writer) *MethodologyResult {
	prompt, err := renderMethodologyPrompt(truncate(text, methodologyCharBudget))
	if err != nil {
		fmt.Fprintf(w, "warning: methodology prompt: %v\n", err)
		return nil
	}

	raw, err := a.ai.CompleteJSON(ctx, methodologyRole, prompt, 0.2)
	if err != nil {
		fmt.Fprintf(w, "warning: methodology analysis: %v\n", err)
		return nil
	}

	var result MethodologyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Fprintf(w, "warning: methodology response: %v\n", err)
		return nil
	}
	return &result
}

// AssessSuccess submits the paper metadata plus text (truncated to its
// budget) and returns the parsed assessment, or nil on any AI failure.
func (a *Analyzer) AssessSuccess(ctx context.Context, paper *types.Paper, text string, w io.Writer) *successResult {
	prompt, err := renderSuccessPrompt(paper, truncate(text, successCharBudget))
	if err != nil {
		fmt.Fprintf(w, "warning: success prompt: %v\n", err)
		return nil
	}

	raw, err := a.ai.CompleteJSON(ctx, successRole, prompt, 0.2)
	if err != nil {
		fmt.Fprintf(w, "warning: success assessment: %v\n", err)
		return nil
	}

	var result successResult
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Fprintf(w, "warning: success response: %v\n", err)
		return nil
	}
	return &result
}

// CompositeScore combines the weighted sub-scores into the headline
// success score.
func CompositeScore(a *types.Analysis) float64 {
	return a.DataQuality*weightDataQuality +
		a.MethodologyRigor*weightRigor +
		a.Novelty*weightNovelty +
		a.Impact*weightImpact
}

// AnalyzePaper runs the full annotation for one paper: recover text,
// split sections, analyze methodology when a methodology section exists,
// assess success (mandatory), persist the analysis, then enrich the paper
// row when methodology analysis succeeded. Returns nil with no writes
// when no text is available or the success assessment fails.
func (a *Analyzer) AnalyzePaper(ctx context.Context, paper *types.Paper, w io.Writer) (*types.Analysis, error) {
	text := ""
	if a.reader != nil && paper.PDFPath != "" {
		text = a.reader.Read(paper.PDFPath)
	}
	if text == "" {
		text = paper.Abstract
	}
	if text == "" {
		fmt.Fprintf(w, "skipped %s: no text available\n", paper.Title)
		return nil, nil
	}

	secs := sections.Extract(text)

	var meth *MethodologyResult
	if secs.Methodology != "" {
		meth = a.AnalyzeMethodology(ctx, secs.Methodology, w)
	}

	success := a.AssessSuccess(ctx, paper, text, w)
	if success == nil {
		fmt.Fprintf(w, "skipped %s: assessment failed\n", paper.Title)
		return nil, nil
	}

	analysis := &types.Analysis{
		PaperID:                 paper.ID,
		DataQuality:             success.DataQuality,
		MethodologyRigor:        success.MethodologyRigor,
		TheoreticalContribution: success.TheoreticalContribution,
		Novelty:                 success.Novelty,
		Impact:                  success.Impact,
		KeySuccessFactors:       success.KeySuccessFactors,
		MethodologyDetails:      success.MethodologyDetails,
		DataCharacteristics:     success.DataCharacteristics,
		AnalyticalApproach:      success.AnalyticalApproach,
		Recommendations:         success.Recommendations,
	}
	analysis.SuccessScore = CompositeScore(analysis)

	keywords := ExtractKeywords(text)

	if err := a.store.InsertAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	if meth != nil {
		paper.Methodology = meth.Methodology
		paper.DataSources = meth.DataSources
		paper.AnalysisMethods = meth.AnalysisMethods
		paper.KeyFindings = meth.KeyFindings
		paper.TheoreticalFramework = meth.TheoreticalFramework
		if len(keywords) > 0 {
			paper.Keywords = Terms(keywords)
		}
		if err := a.store.EnrichPaper(ctx, paper); err != nil {
			return nil, err
		}
	}

	return analysis, nil
}

// Summary holds counts from one analysis run.
type Summary struct {
	Analyzed int
	Skipped  int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Analyzed + s.Skipped
}

// Run analyzes every unanalyzed paper, up to the configured limit. Skips
// are per-paper and logged; store errors abort the stage.
func (a *Analyzer) Run(ctx context.Context, w io.Writer) (Summary, error) {
	papers, err := a.store.UnanalyzedPapers(ctx, a.cfg.Limit)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for i := range papers {
		if i > 0 && a.cfg.RequestDelay > 0 {
			time.Sleep(a.cfg.RequestDelay)
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		analysis, err := a.AnalyzePaper(ctx, &papers[i], w)
		if err != nil {
			return summary, err
		}
		if analysis == nil {
			summary.Skipped++
			continue
		}
		fmt.Fprintf(w, "analyzed %s (score %.1f)\n", papers[i].Title, analysis.SuccessScore)
		summary.Analyzed++
	}

	fmt.Fprintf(w, "\nanalyzed: %d, skipped: %d\n", summary.Analyzed, summary.Skipped)
	return summary, nil
}

// truncate caps s at n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
