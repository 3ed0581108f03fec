// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/ideas"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Generate, refine, and evaluate research ideas",
	Long: `Ideas manages research ideas derived from the analyzed papers. Use
subcommands to generate new ideas, refine a stored idea, or evaluate one
for feasibility and novelty.`,
}

// --- generate subcommand ---

var ideasGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate research ideas from top papers and patterns",
	Long: `Generate runs five generation strategies (extension, combination,
gap filling, replication, methodological) against the top-scored papers
and mined patterns, storing each idea for later refinement.`,
	RunE: runIdeasGenerate,
}

func runIdeasGenerate(cmd *cobra.Command, args []string) error {
	g, st, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := g.Generate(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Generated == 0 {
		return fmt.Errorf("all generation strategies failed")
	}
	return nil
}

// --- refine subcommand ---

var ideasRefineCmd = &cobra.Command{
	Use:   "refine [idea-id]",
	Short: "Refine a stored idea into a stronger study design",
	Long: `Refine asks for a sharpened version of a stored idea. The result is
printed as YAML and never written back; use it to iterate on the design
before committing to a direction.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdeasRefine,
}

func runIdeasRefine(cmd *cobra.Command, args []string) error {
	ideaID, err := parseIdeaID(args[0])
	if err != nil {
		return err
	}

	g, st, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	focus, _ := cmd.Flags().GetString("focus")
	refined, err := g.RefineIdea(context.Background(), ideaID, focus)
	if err != nil {
		return err
	}

	encoded, err := yaml.Marshal(refined)
	if err != nil {
		return err
	}
	fmt.Print(string(encoded))
	return nil
}

// --- evaluate subcommand ---

var ideasEvaluateCmd = &cobra.Command{
	Use:   "evaluate [idea-id]",
	Short: "Score a stored idea for feasibility and novelty",
	Long: `Evaluate scores a stored idea from 0 to 100 on feasibility and
novelty, records the scores, and marks the idea evaluated.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdeasEvaluate,
}

func runIdeasEvaluate(cmd *cobra.Command, args []string) error {
	ideaID, err := parseIdeaID(args[0])
	if err != nil {
		return err
	}

	g, st, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eval, err := g.EvaluateIdea(context.Background(), ideaID)
	if err != nil {
		return err
	}

	fmt.Printf("feasibility: %.0f\nnovelty:     %.0f\nverdict:     %s\n", eval.FeasibilityScore, eval.NoveltyScore, eval.Verdict)
	for _, s := range eval.Strengths {
		fmt.Printf("+ %s\n", s)
	}
	for _, w := range eval.Weaknesses {
		fmt.Printf("- %s\n", w)
	}
	return nil
}

// --- shared helpers ---

func newGenerator(cmd *cobra.Command) (*ideas.Generator, *store.Store, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	top, _ := cmd.Flags().GetInt("top")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	cfg := types.IdeasConfig{
		AIConfig:      aiConfig(cmd),
		TopPapers:     top,
		StrategyDelay: delay,
	}
	return ideas.New(newAIClient(cmd), st, cfg), st, nil
}

func parseIdeaID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid idea ID %q", arg)
	}
	return id, nil
}

func init() {
	ideasGenerateCmd.Flags().Int("top", 0, "number of top papers for context (default 10)")
	ideasGenerateCmd.Flags().Duration("delay", 0, "delay between strategies (default 1s)")
	addAIFlags(ideasGenerateCmd)

	ideasRefineCmd.Flags().String("focus", "", "aspect to focus the refinement on")
	addAIFlags(ideasRefineCmd)

	addAIFlags(ideasEvaluateCmd)

	ideasCmd.AddCommand(ideasGenerateCmd)
	ideasCmd.AddCommand(ideasRefineCmd)
	ideasCmd.AddCommand(ideasEvaluateCmd)

	rootCmd.AddCommand(ideasCmd)
}
