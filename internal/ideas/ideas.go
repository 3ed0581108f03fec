// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ideas generates, refines, and evaluates research ideas. Ideas
// come from five generation strategies run against a shared context of
// top-scored papers and mined success patterns.
package ideas

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	defaultTopPapers = 10
	defaultScore     = 70
)

const generatorRole = "You are a creative marketing research strategist who proposes publishable study designs. You respond only with JSON."

// strategy names a generation angle and the instruction that frames it.
type strategy struct {
	name     string
	preamble string
}

var strategies = []strategy{
	{"extension", "Extend the methodology or findings of the papers below to new contexts, populations, or time periods."},
	{"combination", "Combine methods, theories, or data from two or more of the papers below into a single new study."},
	{"gap_filling", "Target questions the papers below raise but leave unanswered."},
	{"replication", "Replicate influential findings from the papers below with better data or in new markets."},
	{"methodological", "Apply newer analytical methods to questions the papers below studied with older techniques."},
}

var generatorPromptTmpl = template.Must(template.New("ideas").Parse(`{{.Preamble}}

Top papers:
{{range .Papers}}- "{{.Paper.Title}}" ({{.Paper.JournalCode}}, {{.Paper.Year}}, score {{printf "%.0f" .Analysis.SuccessScore}}){{if .Paper.Methodology}}
  Methodology: {{.Paper.Methodology}}{{end}}
{{end}}{{if .Patterns}}
Success patterns observed across these journals:
{{range .Patterns}}- [{{.PatternType}}] {{.Description}}
{{end}}{{end}}
Propose 2-3 research ideas. Respond with JSON only:
{
  "ideas": [
    {
      "title": "...",
      "description": "...",
      "based_on_papers": ["title"],
      "research_question": "...",
      "methodology": "...",
      "required_data": ["..."],
      "expected_contribution": "...",
      "feasibility_score": 70,
      "novelty_score": 70
    }
  ]
}`))

// Generator runs the idea generation stage.
type Generator struct {
	ai    ai.Client
	store *store.Store
	cfg   types.IdeasConfig
}

// New builds a Generator.
func New(client ai.Client, st *store.Store, cfg types.IdeasConfig) *Generator {
	return &Generator{ai: client, store: st, cfg: cfg}
}

// Summary holds counts from one generation run.
type Summary struct {
	Generated        int
	FailedStrategies int
}

// Generate runs every strategy against the shared paper and pattern
// context and persists each idea with status generated. A failed
// strategy is logged and skipped; the run continues.
func (g *Generator) Generate(ctx context.Context, w io.Writer) (Summary, error) {
	top := g.cfg.TopPapers
	if top <= 0 {
		top = defaultTopPapers
	}

	scored, err := g.store.TopPapers(ctx, top)
	if err != nil {
		return Summary{}, err
	}
	if len(scored) == 0 {
		return Summary{}, fmt.Errorf("no analyzed papers to generate ideas from")
	}

	patterns, err := g.store.Patterns(ctx)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for i, strat := range strategies {
		if i > 0 && g.cfg.StrategyDelay > 0 {
			time.Sleep(g.cfg.StrategyDelay)
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		generated, err := g.runStrategy(ctx, strat, scored, patterns)
		if err != nil {
			fmt.Fprintf(w, "warning: strategy %s: %v\n", strat.name, err)
			summary.FailedStrategies++
			continue
		}
		for _, idea := range generated {
			fmt.Fprintf(w, "idea [%s] %s (novelty %.0f)\n", strat.name, idea.Title, idea.NoveltyScore)
		}
		summary.Generated += len(generated)
	}

	fmt.Fprintf(w, "\ngenerated %d ideas (%d strategies failed)\n", summary.Generated, summary.FailedStrategies)
	return summary, nil
}

func (g *Generator) runStrategy(ctx context.Context, strat strategy, scored []types.ScoredPaper, patterns []types.SuccessPattern) ([]types.ResearchIdea, error) {
	var buf strings.Builder
	err := generatorPromptTmpl.Execute(&buf, struct {
		Preamble string
		Papers   []types.ScoredPaper
		Patterns []types.SuccessPattern
	}{Preamble: strat.preamble, Papers: scored, Patterns: patterns})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := g.ai.CompleteJSON(ctx, generatorRole, buf.String(), 0.8)
	if err != nil {
		return nil, err
	}

	parsed, err := parseIdeas(raw)
	if err != nil {
		return nil, err
	}

	var ideas []types.ResearchIdea
	for _, idea := range parsed {
		if idea.Title == "" {
			continue
		}
		if err := g.store.InsertIdea(ctx, &idea); err != nil {
			return ideas, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}
