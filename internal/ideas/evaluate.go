// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/pkg/types"
)

const refineRole = "You are a senior marketing researcher who sharpens study designs. You respond only with JSON."

const evaluateRole = "You are a journal editor who judges research proposals on feasibility and novelty. You respond only with JSON."

var ideaContextTmpl = template.Must(template.New("idea").Parse(`Title: {{.Title}}
Description: {{.Description}}
Research question: {{.ResearchQuestion}}
Methodology: {{.Methodology}}{{if .RequiredData}}
Required data: {{range $i, $d := .RequiredData}}{{if $i}}, {{end}}{{$d}}{{end}}{{end}}
Expected contribution: {{.ExpectedContribution}}`))

var refinePromptTmpl = template.Must(template.New("refine").Parse(`Refine the research idea below into a stronger, more concrete study design.{{if .Guidance}} Focus on: {{.Guidance}}{{end}}

{{.Idea}}

Respond with JSON only:
{
  "title": "...",
  "description": "...",
  "research_question": "...",
  "methodology": "...",
  "required_data": ["..."],
  "expected_contribution": "...",
  "improvements": ["what you changed and why"]
}`))

var evaluatePromptTmpl = template.Must(template.New("evaluate").Parse(`Evaluate the research idea below.

{{.Idea}}

Score feasibility (can a typical research team execute this?) and novelty (does it advance the field?) from 0 to 100.

Respond with JSON only:
{
  "feasibility_score": 70,
  "novelty_score": 70,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "verdict": "one-sentence overall judgment"
}`))

// RefinedIdea is a sharpened version of a stored idea. It is advisory
// output and is never written back to the store.
type RefinedIdea struct {
	Title                string   `json:"title" yaml:"title"`
	Description          string   `json:"description" yaml:"description"`
	ResearchQuestion     string   `json:"research_question" yaml:"research_question"`
	Methodology          string   `json:"methodology" yaml:"methodology"`
	RequiredData         []string `json:"required_data" yaml:"required_data"`
	ExpectedContribution string   `json:"expected_contribution" yaml:"expected_contribution"`
	Improvements         []string `json:"improvements" yaml:"improvements"`
}

// Evaluation is the scored judgment of a stored idea.
type Evaluation struct {
	FeasibilityScore float64  `json:"feasibility_score" yaml:"feasibility_score"`
	NoveltyScore     float64  `json:"novelty_score" yaml:"novelty_score"`
	Strengths        []string `json:"strengths" yaml:"strengths"`
	Weaknesses       []string `json:"weaknesses" yaml:"weaknesses"`
	Verdict          string   `json:"verdict" yaml:"verdict"`
}

func renderIdeaContext(idea *types.ResearchIdea) (string, error) {
	var buf strings.Builder
	if err := ideaContextTmpl.Execute(&buf, idea); err != nil {
		return "", fmt.Errorf("rendering idea: %w", err)
	}
	return buf.String(), nil
}

// RefineIdea asks for a sharpened version of the idea. The optional
// guidance string steers the refinement.
func (g *Generator) RefineIdea(ctx context.Context, ideaID int64, guidance string) (*RefinedIdea, error) {
	idea, err := g.store.IdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	ideaText, err := renderIdeaContext(idea)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	err = refinePromptTmpl.Execute(&buf, struct {
		Idea     string
		Guidance string
	}{Idea: ideaText, Guidance: guidance})
	if err != nil {
		return nil, fmt.Errorf("rendering refine prompt: %w", err)
	}

	raw, err := g.ai.CompleteJSON(ctx, refineRole, buf.String(), 0.6)
	if err != nil {
		return nil, fmt.Errorf("refining idea %d: %w", ideaID, err)
	}

	var refined RefinedIdea
	if err := json.Unmarshal(raw, &refined); err != nil {
		return nil, fmt.Errorf("parsing refinement: %w", err)
	}
	return &refined, nil
}

// EvaluateIdea scores the idea and persists the scores, marking the
// idea evaluated.
func (g *Generator) EvaluateIdea(ctx context.Context, ideaID int64) (*Evaluation, error) {
	idea, err := g.store.IdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	ideaText, err := renderIdeaContext(idea)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := evaluatePromptTmpl.Execute(&buf, struct{ Idea string }{Idea: ideaText}); err != nil {
		return nil, fmt.Errorf("rendering evaluate prompt: %w", err)
	}

	raw, err := g.ai.CompleteJSON(ctx, evaluateRole, buf.String(), 0.2)
	if err != nil {
		return nil, fmt.Errorf("evaluating idea %d: %w", ideaID, err)
	}

	var eval Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return nil, fmt.Errorf("parsing evaluation: %w", err)
	}
	if eval.FeasibilityScore <= 0 {
		eval.FeasibilityScore = defaultScore
	}
	if eval.NoveltyScore <= 0 {
		eval.NoveltyScore = defaultScore
	}

	if err := g.store.UpdateIdeaEvaluation(ctx, ideaID, eval.FeasibilityScore, eval.NoveltyScore); err != nil {
		return nil, err
	}
	return &eval, nil
}
