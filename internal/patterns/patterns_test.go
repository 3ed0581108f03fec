// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

type fakeAI struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeAI) CompleteJSON(ctx context.Context, system, prompt string, temperature float64) ([]byte, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.reply), nil
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedAnalyzedPaper(t *testing.T, st *store.Store, title string, score float64) {
	t.Helper()
	ctx := context.Background()
	paper := &types.Paper{
		Title:       title,
		JournalCode: "JM",
		JournalName: "Journal of Marketing",
		Year:        2022,
		Methodology: "Field experiment",
		KeyFindings: "Personalization lifts conversion",
	}
	if _, err := st.InsertPaper(ctx, paper); err != nil {
		t.Fatalf("InsertPaper: %v", err)
	}
	analysis := &types.Analysis{PaperID: paper.ID, SuccessScore: score}
	if err := st.InsertAnalysis(ctx, analysis); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
}

const minerReply = `{
	"patterns": [
		{
			"pattern_type": "methodology",
			"description": "Field experiments with real firm partners",
			"frequency": 4,
			"example_papers": ["Paper A", "Paper B"],
			"journals": ["JM", "JMR"]
		},
		{
			"pattern_type": "data",
			"description": "Large proprietary panels",
			"frequency": 2,
			"example_papers": ["Paper C"],
			"journals": ["MKSC"]
		}
	]
}`

func TestRunMinesAndPersists(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)
	seedAnalyzedPaper(t, st, "Paper B", 70)

	client := &fakeAI{reply: minerReply}
	m := New(client, st, types.PatternsConfig{})

	var buf strings.Builder
	mined, err := m.Run(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mined) != 2 {
		t.Fatalf("mined = %d, want 2", len(mined))
	}
	if !strings.Contains(client.prompt, "Paper A") {
		t.Fatal("prompt missing paper title")
	}

	stored, err := st.Patterns(context.Background())
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored = %d, want 2", len(stored))
	}
	if stored[0].Frequency != 4 {
		t.Fatalf("top frequency = %d, want 4", stored[0].Frequency)
	}
	if len(stored[0].ExamplePapers) != 2 {
		t.Fatalf("ExamplePapers = %v", stored[0].ExamplePapers)
	}
	if !strings.Contains(buf.String(), "mined 2 patterns from 2 papers") {
		t.Fatalf("missing summary: %q", buf.String())
	}
}

func TestRunEmptyStoreSkipsAICall(t *testing.T) {
	st := testStore(t)
	client := &fakeAI{reply: minerReply}
	m := New(client, st, types.PatternsConfig{})

	mined, err := m.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mined != nil {
		t.Fatalf("mined = %v, want nil", mined)
	}
	if client.calls != 0 {
		t.Fatalf("calls = %d, want 0", client.calls)
	}
}

func TestRunAIFailurePersistsNothing(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)

	client := &fakeAI{err: fmt.Errorf("api unavailable")}
	m := New(client, st, types.PatternsConfig{})

	if _, err := m.Run(context.Background(), io.Discard); err == nil {
		t.Fatal("expected error")
	}

	stored, err := st.Patterns(context.Background())
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("stored = %d, want 0", len(stored))
	}
}

func TestRunDropsPatternsWithoutDescription(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)

	client := &fakeAI{reply: `{"patterns": [{"pattern_type": "topic", "description": "", "frequency": 1}, {"pattern_type": "data", "description": "Open datasets", "frequency": 1}]}`}
	m := New(client, st, types.PatternsConfig{})

	mined, err := m.Run(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mined) != 1 || mined[0].Description != "Open datasets" {
		t.Fatalf("mined = %+v", mined)
	}
}
