// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns mines cross-paper success patterns from the
// highest-scored analyzed papers in a single AI call.
package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

const defaultTopPapers = 30

const minerRole = "You are a research strategist who identifies what makes marketing papers succeed. You respond only with JSON."

// minerPromptTmpl lists the top papers and asks for recurring patterns
// across them. The reply must be a JSON object with a "patterns" list.
var minerPromptTmpl = template.Must(template.New("patterns").Parse(`Below are {{len .Papers}} highly-rated papers from top marketing journals.

{{range .Papers}}- "{{.Paper.Title}}" ({{.Paper.JournalCode}}, {{.Paper.Year}}, {{.Paper.CitationCount}} citations, score {{printf "%.0f" .Analysis.SuccessScore}}){{if .Paper.Methodology}}
  Methodology: {{.Paper.Methodology}}{{end}}{{if .Paper.KeyFindings}}
  Findings: {{.Paper.KeyFindings}}{{end}}
{{end}}
Identify recurring patterns that explain why these papers succeeded. Consider methodology choices, data characteristics, theoretical framing, and topic selection.

Respond with JSON only:
{
  "patterns": [
    {
      "pattern_type": "methodology|data|theory|topic",
      "description": "what the pattern is",
      "frequency": 3,
      "example_papers": ["title", "title"],
      "journals": ["JM", "JMR"]
    }
  ]
}`))

// Miner runs the pattern mining stage.
type Miner struct {
	ai    ai.Client
	store *store.Store
	cfg   types.PatternsConfig
}

// New builds a Miner.
func New(client ai.Client, st *store.Store, cfg types.PatternsConfig) *Miner {
	return &Miner{ai: client, store: st, cfg: cfg}
}

type minedPattern struct {
	PatternType   string   `json:"pattern_type"`
	Description   string   `json:"description"`
	Frequency     int      `json:"frequency"`
	ExamplePapers []string `json:"example_papers"`
	Journals      []string `json:"journals"`
}

type minerResponse struct {
	Patterns []minedPattern `json:"patterns"`
}

// Run mines patterns from the top analyzed papers and persists them.
// With no analyzed papers it logs and returns without an AI call.
// Persistence is all-or-nothing.
func (m *Miner) Run(ctx context.Context, w io.Writer) ([]types.SuccessPattern, error) {
	top := m.cfg.TopPapers
	if top <= 0 {
		top = defaultTopPapers
	}

	scored, err := m.store.TopPapers(ctx, top)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		fmt.Fprintln(w, "no analyzed papers, nothing to mine")
		return nil, nil
	}

	var buf strings.Builder
	if err := minerPromptTmpl.Execute(&buf, struct{ Papers []types.ScoredPaper }{Papers: scored}); err != nil {
		return nil, fmt.Errorf("rendering pattern prompt: %w", err)
	}

	raw, err := m.ai.CompleteJSON(ctx, minerRole, buf.String(), 0.4)
	if err != nil {
		return nil, fmt.Errorf("mining patterns: %w", err)
	}

	var resp minerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing pattern response: %w", err)
	}
	if len(resp.Patterns) == 0 {
		fmt.Fprintln(w, "no patterns identified")
		return nil, nil
	}

	patterns := make([]types.SuccessPattern, 0, len(resp.Patterns))
	for _, p := range resp.Patterns {
		if p.Description == "" {
			continue
		}
		patterns = append(patterns, types.SuccessPattern{
			PatternType:   p.PatternType,
			Description:   p.Description,
			Frequency:     p.Frequency,
			ExamplePapers: p.ExamplePapers,
			Journals:      p.Journals,
		})
	}

	if err := m.store.InsertPatterns(ctx, patterns); err != nil {
		return nil, err
	}

	for _, p := range patterns {
		fmt.Fprintf(w, "pattern [%s] x%d: %s\n", p.PatternType, p.Frequency, p.Description)
	}
	fmt.Fprintf(w, "\nmined %d patterns from %d papers\n", len(patterns), len(scored))
	return patterns, nil
}
