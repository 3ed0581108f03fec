// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

const reportTopPapers = 10

// Report is the final research summary, rendered to both a readable
// text file and a machine-readable YAML file in the data directory.
type Report struct {
	GeneratedAt time.Time              `yaml:"generated_at"`
	Stats       store.Stats            `yaml:"stats"`
	TopPapers   []types.ScoredPaper    `yaml:"top_papers"`
	Patterns    []types.SuccessPattern `yaml:"patterns"`
	Ideas       []types.ResearchIdea   `yaml:"ideas"`
}

// BuildReport assembles the report from the store.
func BuildReport(ctx context.Context, st *store.Store) (*Report, error) {
	stats, err := st.CollectStats(ctx)
	if err != nil {
		return nil, err
	}
	top, err := st.TopPapers(ctx, reportTopPapers)
	if err != nil {
		return nil, err
	}
	patterns, err := st.Patterns(ctx)
	if err != nil {
		return nil, err
	}
	allIdeas, err := st.IdeasByStatus(ctx, "")
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt: time.Now().UTC(),
		Stats:       stats,
		TopPapers:   top,
		Patterns:    patterns,
		Ideas:       allIdeas,
	}, nil
}

// WriteFiles writes report.txt and report.yaml into dir and returns the
// text report's path.
func (r *Report) WriteFiles(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	yamlPath := filepath.Join(dir, "report.yaml")
	encoded, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(yamlPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", yamlPath, err)
	}

	textPath := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(textPath, []byte(r.Text()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", textPath, err)
	}
	return textPath, nil
}

// Text renders the human-readable report.
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Research Report (%s)\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(&b, "Papers: %d  Analyses: %d  Patterns: %d  Ideas: %d  Datasets: %d\n",
		r.Stats.Papers, r.Stats.Analyses, r.Stats.Patterns, r.Stats.Ideas, r.Stats.Datasets)
	fmt.Fprintf(&b, "Average success score: %.1f  Average idea novelty: %.1f\n\n",
		r.Stats.AvgSuccessScore, r.Stats.AvgNoveltyScore)

	if len(r.TopPapers) > 0 {
		fmt.Fprintf(&b, "Top papers\n----------\n")
		for i, sp := range r.TopPapers {
			fmt.Fprintf(&b, "%2d. [%.1f] %s (%s, %d)\n", i+1, sp.Analysis.SuccessScore, sp.Paper.Title, sp.Paper.JournalCode, sp.Paper.Year)
		}
		b.WriteByte('\n')
	}

	if len(r.Patterns) > 0 {
		fmt.Fprintf(&b, "Success patterns\n----------------\n")
		for _, p := range r.Patterns {
			fmt.Fprintf(&b, "- [%s] x%d %s\n", p.PatternType, p.Frequency, p.Description)
		}
		b.WriteByte('\n')
	}

	if len(r.Ideas) > 0 {
		fmt.Fprintf(&b, "Research ideas\n--------------\n")
		for _, idea := range r.Ideas {
			fmt.Fprintf(&b, "- [%s] %s (feasibility %.0f, novelty %.0f)\n", idea.Status, idea.Title, idea.FeasibilityScore, idea.NoveltyScore)
			if idea.ResearchQuestion != "" {
				fmt.Fprintf(&b, "  Q: %s\n", idea.ResearchQuestion)
			}
		}
	}

	return b.String()
}
