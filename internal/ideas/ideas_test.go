// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

// fakeAI replays one reply per call and records prompts. failAt fails
// the nth call (1-based); zero disables failure.
type fakeAI struct {
	reply   string
	failAt  int
	calls   int
	prompts []string
}

func (f *fakeAI) CompleteJSON(ctx context.Context, system, prompt string, temperature float64) ([]byte, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.failAt != 0 && f.calls == f.failAt {
		return nil, fmt.Errorf("api unavailable")
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
	paper := &types.Paper{Title: title, JournalCode: "JMR", Year: 2023, Methodology: "Structural model"}
	if _, err := st.InsertPaper(ctx, paper); err != nil {
		t.Fatalf("InsertPaper: %v", err)
	}
	if err := st.InsertAnalysis(ctx, &types.Analysis{PaperID: paper.ID, SuccessScore: score}); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
}

const ideasReply = `{"ideas": [{
	"title": "Dynamic Pricing and Loyalty",
	"description": "Study how dynamic pricing affects loyalty program engagement.",
	"based_on_papers": ["Paper A"],
	"research_question": "Does surge pricing erode loyalty?",
	"methodology": "Panel regression with firm data",
	"required_data": ["loyalty panel", "price logs"],
	"expected_contribution": "Links pricing to retention",
	"feasibility_score": 80,
	"novelty_score": 85
}]}`

func TestGeneratePersistsIdeasFromAllStrategies(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)

	client := &fakeAI{reply: ideasReply}
	g := New(client, st, types.IdeasConfig{})

	summary, err := g.Generate(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if client.calls != len(strategies) {
		t.Fatalf("calls = %d, want %d", client.calls, len(strategies))
	}
	if summary.Generated != len(strategies) {
		t.Fatalf("Generated = %d, want %d", summary.Generated, len(strategies))
	}

	stored, err := st.IdeasByStatus(context.Background(), types.IdeaGenerated)
	if err != nil {
		t.Fatalf("IdeasByStatus: %v", err)
	}
	if len(stored) != len(strategies) {
		t.Fatalf("stored = %d, want %d", len(stored), len(strategies))
	}
	if stored[0].NoveltyScore != 85 {
		t.Fatalf("NoveltyScore = %v, want 85", stored[0].NoveltyScore)
	}
	if len(stored[0].RequiredData) != 2 {
		t.Fatalf("RequiredData = %v", stored[0].RequiredData)
	}
}

func TestGenerateToleratesStrategyFailure(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)

	client := &fakeAI{reply: ideasReply, failAt: 2}
	g := New(client, st, types.IdeasConfig{})

	var buf strings.Builder
	summary, err := g.Generate(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if summary.FailedStrategies != 1 {
		t.Fatalf("FailedStrategies = %d, want 1", summary.FailedStrategies)
	}
	if summary.Generated != len(strategies)-1 {
		t.Fatalf("Generated = %d, want %d", summary.Generated, len(strategies)-1)
	}
	if !strings.Contains(buf.String(), "warning: strategy combination") {
		t.Fatalf("missing failure log: %q", buf.String())
	}
}

func TestGeneratePromptsCarryPapersAndPatterns(t *testing.T) {
	st := testStore(t)
	seedAnalyzedPaper(t, st, "Paper A", 90)
	err := st.InsertPatterns(context.Background(), []types.SuccessPattern{
		{PatternType: "methodology", Description: "Field experiments win", Frequency: 3},
	})
	if err != nil {
		t.Fatalf("InsertPatterns: %v", err)
	}

	client := &fakeAI{reply: ideasReply}
	g := New(client, st, types.IdeasConfig{})
	if _, err := g.Generate(context.Background(), io.Discard); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i, prompt := range client.prompts {
		if !strings.Contains(prompt, "Paper A") {
			t.Fatalf("prompt %d missing paper", i)
		}
		if !strings.Contains(prompt, "Field experiments win") {
			t.Fatalf("prompt %d missing pattern", i)
		}
	}
	if !strings.Contains(client.prompts[0], strategies[0].preamble) {
		t.Fatal("first prompt missing extension preamble")
	}
}

func TestGenerateRequiresAnalyzedPapers(t *testing.T) {
	st := testStore(t)
	g := New(&fakeAI{reply: ideasReply}, st, types.IdeasConfig{})
	if _, err := g.Generate(context.Background(), io.Discard); err == nil {
		t.Fatal("expected error with empty store")
	}
}

func TestParseIdeasAliases(t *testing.T) {
	raw := []byte(`{"research_ideas": [{
		"idea_title": "Churn and Channels",
		"researchQuestion": "Does channel mix predict churn?",
		"proposed_methodology": "Survival analysis",
		"data_requirements": "CRM export",
		"expectedContribution": "Churn theory",
		"feasibility": 65,
		"novelty": 75
	}]}`)
	ideas, err := parseIdeas(raw)
	if err != nil {
		t.Fatalf("parseIdeas: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("ideas = %d, want 1", len(ideas))
	}
	idea := ideas[0]
	if idea.Title != "Churn and Channels" {
		t.Fatalf("Title = %q", idea.Title)
	}
	if idea.ResearchQuestion != "Does channel mix predict churn?" {
		t.Fatalf("ResearchQuestion = %q", idea.ResearchQuestion)
	}
	if idea.Methodology != "Survival analysis" {
		t.Fatalf("Methodology = %q", idea.Methodology)
	}
	if len(idea.RequiredData) != 1 || idea.RequiredData[0] != "CRM export" {
		t.Fatalf("RequiredData = %v (scalar fallback)", idea.RequiredData)
	}
	if idea.FeasibilityScore != 65 || idea.NoveltyScore != 75 {
		t.Fatalf("scores = %v/%v", idea.FeasibilityScore, idea.NoveltyScore)
	}
}

func TestParseIdeasDefaultsMissingScores(t *testing.T) {
	ideas, err := parseIdeas([]byte(`[{"title": "Minimal Idea"}]`))
	if err != nil {
		t.Fatalf("parseIdeas: %v", err)
	}
	if ideas[0].FeasibilityScore != defaultScore || ideas[0].NoveltyScore != defaultScore {
		t.Fatalf("scores = %v/%v, want defaults", ideas[0].FeasibilityScore, ideas[0].NoveltyScore)
	}
}

func TestParseIdeasUnknownEnvelope(t *testing.T) {
	if _, err := parseIdeas([]byte(`{"proposals": []}`)); err == nil {
		t.Fatal("expected error for unknown list key")
	}
}

func TestEvaluateIdeaPersistsScores(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	idea := &types.ResearchIdea{Title: "Scored Idea", FeasibilityScore: 70, NoveltyScore: 70}
	if err := st.InsertIdea(ctx, idea); err != nil {
		t.Fatalf("InsertIdea: %v", err)
	}

	client := &fakeAI{reply: `{"feasibility_score": 55, "novelty_score": 88, "strengths": ["clear design"], "weaknesses": ["data access"], "verdict": "promising"}`}
	g := New(client, st, types.IdeasConfig{})

	eval, err := g.EvaluateIdea(ctx, idea.ID)
	if err != nil {
		t.Fatalf("EvaluateIdea: %v", err)
	}
	if eval.FeasibilityScore != 55 || eval.NoveltyScore != 88 {
		t.Fatalf("eval = %+v", eval)
	}
	if eval.Verdict != "promising" {
		t.Fatalf("Verdict = %q", eval.Verdict)
	}

	updated, err := st.IdeaByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("IdeaByID: %v", err)
	}
	if updated.Status != types.IdeaEvaluated {
		t.Fatalf("Status = %q, want evaluated", updated.Status)
	}
	if updated.FeasibilityScore != 55 || updated.NoveltyScore != 88 {
		t.Fatalf("persisted scores = %v/%v", updated.FeasibilityScore, updated.NoveltyScore)
	}
}

func TestRefineIdeaDoesNotPersist(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	idea := &types.ResearchIdea{Title: "Original Idea", Methodology: "Survey"}
	if err := st.InsertIdea(ctx, idea); err != nil {
		t.Fatalf("InsertIdea: %v", err)
	}

	client := &fakeAI{reply: `{"title": "Refined Idea", "methodology": "Field experiment", "improvements": ["swapped survey for experiment"]}`}
	g := New(client, st, types.IdeasConfig{})

	refined, err := g.RefineIdea(ctx, idea.ID, "stronger identification")
	if err != nil {
		t.Fatalf("RefineIdea: %v", err)
	}
	if refined.Title != "Refined Idea" {
		t.Fatalf("Title = %q", refined.Title)
	}
	if !strings.Contains(client.prompts[0], "stronger identification") {
		t.Fatal("prompt missing guidance")
	}

	stored, err := st.IdeaByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("IdeaByID: %v", err)
	}
	if stored.Title != "Original Idea" || stored.Status != types.IdeaGenerated {
		t.Fatalf("stored idea changed: %+v", stored)
	}
}
