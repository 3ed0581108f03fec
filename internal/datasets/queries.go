// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/pkg/types"
)

const queryRole = "You are a data librarian who writes dataset search queries. You respond only with JSON."

const scoreRole = "You are a data librarian who judges dataset relevance for research projects. You respond only with JSON."

var queryPromptTmpl = template.Must(template.New("queries").Parse(`Write 5 to 7 short search queries for finding datasets to support this research idea.

Title: {{.Title}}
Research question: {{.ResearchQuestion}}{{if .RequiredData}}
Required data: {{range $i, $d := .RequiredData}}{{if $i}}, {{end}}{{$d}}{{end}}{{end}}

Queries should be 2-5 words, suitable for dataset catalog search boxes.

Respond with JSON only: {"queries": ["...", "..."]}`))

var scorePromptTmpl = template.Must(template.New("score").Parse(`Rate how relevant each dataset below is to this research idea, from 0 (useless) to 100 (ideal).

Idea: {{.Idea.Title}}
Research question: {{.Idea.ResearchQuestion}}{{if .Idea.RequiredData}}
Required data: {{range $i, $d := .Idea.RequiredData}}{{if $i}}, {{end}}{{$d}}{{end}}{{end}}

Datasets:
{{range $i, $c := .Candidates}}{{$i}}. {{$c.Name}} ({{$c.Source}}){{if $c.Description}}: {{$c.Description}}{{end}}
{{end}}
Respond with JSON only: {"scores": [{"index": 0, "relevance_score": 80}]}`))

// generateQueries asks the AI for catalog queries, falling back to the
// idea title plus its first required-data entries when the call fails.
func (f *Finder) generateQueries(ctx context.Context, idea *types.ResearchIdea, w io.Writer) []string {
	max := f.cfg.MaxQueries
	if max <= 0 {
		max = defaultMaxQueries
	}

	queries, err := f.askQueries(ctx, idea)
	if err != nil {
		fmt.Fprintf(w, "warning: query generation: %v\n", err)
		queries = fallbackQueries(idea)
	}
	if len(queries) > max {
		queries = queries[:max]
	}
	return queries
}

func (f *Finder) askQueries(ctx context.Context, idea *types.ResearchIdea) ([]string, error) {
	var buf strings.Builder
	if err := queryPromptTmpl.Execute(&buf, idea); err != nil {
		return nil, fmt.Errorf("rendering query prompt: %w", err)
	}

	raw, err := f.ai.CompleteJSON(ctx, queryRole, buf.String(), 0.5)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing queries: %w", err)
	}

	var queries []string
	for _, q := range resp.Queries {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries in response")
	}
	return queries, nil
}

// fallbackQueries derives queries without the AI: the idea title plus
// up to three required-data entries.
func fallbackQueries(idea *types.ResearchIdea) []string {
	var queries []string
	if title := strings.TrimSpace(idea.Title); title != "" {
		queries = append(queries, title)
	}
	for i, d := range idea.RequiredData {
		if i == 3 {
			break
		}
		if d = strings.TrimSpace(d); d != "" {
			queries = append(queries, d)
		}
	}
	return queries
}

// scoreCandidates asks for relevance scores in one batch call and
// writes them in place. On failure every candidate keeps the default
// score so persistence still proceeds.
func (f *Finder) scoreCandidates(ctx context.Context, idea *types.ResearchIdea, candidates []types.DatasetCandidate, w io.Writer) {
	for i := range candidates {
		if candidates[i].RelevanceScore == 0 {
			candidates[i].RelevanceScore = defaultRelevance
		}
	}

	var buf strings.Builder
	err := scorePromptTmpl.Execute(&buf, struct {
		Idea       *types.ResearchIdea
		Candidates []types.DatasetCandidate
	}{Idea: idea, Candidates: candidates})
	if err != nil {
		fmt.Fprintf(w, "warning: score prompt: %v\n", err)
		return
	}

	raw, err := f.ai.CompleteJSON(ctx, scoreRole, buf.String(), 0.2)
	if err != nil {
		fmt.Fprintf(w, "warning: relevance scoring: %v\n", err)
		return
	}

	var resp struct {
		Scores []struct {
			Index          int     `json:"index"`
			RelevanceScore float64 `json:"relevance_score"`
		} `json:"scores"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		fmt.Fprintf(w, "warning: parsing scores: %v\n", err)
		return
	}

	for _, s := range resp.Scores {
		if s.Index >= 0 && s.Index < len(candidates) && s.RelevanceScore > 0 {
			candidates[s.Index].RelevanceScore = s.RelevanceScore
		}
	}
}
