// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Models vary the envelope key and field naming between runs, so the
// parser accepts the common spellings rather than one strict schema.

var listKeys = []string{"ideas", "research_ideas"}

var fieldAliases = map[string][]string{
	"title":                 {"title", "idea_title"},
	"description":           {"description", "summary"},
	"based_on_papers":       {"based_on_papers", "basedOnPapers"},
	"research_question":     {"research_question", "researchQuestion"},
	"methodology":           {"methodology", "proposed_methodology", "proposedMethodology"},
	"required_data":         {"required_data", "requiredData", "data_requirements"},
	"expected_contribution": {"expected_contribution", "expectedContribution"},
	"feasibility_score":     {"feasibility_score", "feasibility", "feasibilityScore"},
	"novelty_score":         {"novelty_score", "novelty", "noveltyScore"},
}

// parseIdeas decodes a generation reply. The payload may be a bare list
// or an object wrapping the list under a known key.
func parseIdeas(raw []byte) ([]types.ResearchIdea, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("parsing ideas response: %w", err)
		}
		found := false
		for _, key := range listKeys {
			list, ok := envelope[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(list, &items); err != nil {
				return nil, fmt.Errorf("parsing ideas list: %w", err)
			}
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("ideas response has no recognized list key")
		}
	}

	ideas := make([]types.ResearchIdea, 0, len(items))
	for _, item := range items {
		ideas = append(ideas, types.ResearchIdea{
			Title:                aliasString(item, "title"),
			Description:          aliasString(item, "description"),
			BasedOnPapers:        aliasStringList(item, "based_on_papers"),
			ResearchQuestion:     aliasString(item, "research_question"),
			Methodology:          aliasString(item, "methodology"),
			RequiredData:         aliasStringList(item, "required_data"),
			ExpectedContribution: aliasString(item, "expected_contribution"),
			FeasibilityScore:     aliasScore(item, "feasibility_score"),
			NoveltyScore:         aliasScore(item, "novelty_score"),
		})
	}
	return ideas, nil
}

func aliasValue(item map[string]any, canonical string) (any, bool) {
	for _, key := range fieldAliases[canonical] {
		if v, ok := item[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func aliasString(item map[string]any, canonical string) string {
	v, ok := aliasValue(item, canonical)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// aliasStringList accepts a JSON list or a single string.
func aliasStringList(item map[string]any, canonical string) []string {
	v, ok := aliasValue(item, canonical)
	if !ok {
		return nil
	}
	switch typed := v.(type) {
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []any:
		var out []string
		for _, elem := range typed {
			if s, ok := elem.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// aliasScore falls back to the default when the field is missing or not
// a number.
func aliasScore(item map[string]any, canonical string) float64 {
	v, ok := aliasValue(item, canonical)
	if !ok {
		return defaultScore
	}
	f, ok := v.(float64)
	if !ok {
		return defaultScore
	}
	return f
}
