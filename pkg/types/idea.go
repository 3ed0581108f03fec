// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IdeaStatus tracks the lifecycle of a generated research idea.
type IdeaStatus string

const (
	IdeaGenerated IdeaStatus = "generated"
	IdeaEvaluated IdeaStatus = "evaluated"
)

// ResearchIdea is a generated research proposal derived from mined
// patterns and top-scoring papers.
type ResearchIdea struct {
	ID int64 `json:"id" yaml:"id"`

	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	BasedOnPapers []string `json:"based_on_papers,omitempty" yaml:"based_on_papers,omitempty"`

	ResearchQuestion     string   `json:"research_question,omitempty" yaml:"research_question,omitempty"`
	Methodology          string   `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	RequiredData         []string `json:"required_data,omitempty" yaml:"required_data,omitempty"`
	ExpectedContribution string   `json:"expected_contribution,omitempty" yaml:"expected_contribution,omitempty"`

	// FeasibilityScore and NoveltyScore are on a 0-100 scale and default
	// to 70 when the generation response omits them.
	FeasibilityScore float64 `json:"feasibility_score" yaml:"feasibility_score"`
	NoveltyScore     float64 `json:"novelty_score" yaml:"novelty_score"`

	Status IdeaStatus `json:"status" yaml:"status"`
}

// DatasetCandidate is an externally discovered data source matched to one
// research idea.
type DatasetCandidate struct {
	ID     int64 `json:"id" yaml:"id"`
	IdeaID int64 `json:"idea_id" yaml:"idea_id"`

	Name        string   `json:"name" yaml:"name"`
	Source      string   `json:"source" yaml:"source"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	DataType    string   `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Variables   []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	TimePeriod  string   `json:"time_period,omitempty" yaml:"time_period,omitempty"`
	Geography   string   `json:"geography,omitempty" yaml:"geography,omitempty"`

	// Accessibility classifies access: "open", "restricted", or "unknown".
	Accessibility string `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`

	// RelevanceScore is 0-100; 50 when the batch scoring call omits the entry.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// SuccessPattern is a cross-paper commonality discovered by the pattern
// mining stage.
type SuccessPattern struct {
	ID int64 `json:"id" yaml:"id"`

	PatternType   string   `json:"pattern_type" yaml:"pattern_type"`
	Description   string   `json:"description" yaml:"description"`
	Frequency     int      `json:"frequency" yaml:"frequency"`
	ExamplePapers []string `json:"example_papers,omitempty" yaml:"example_papers,omitempty"`
	Journals      []string `json:"journals,omitempty" yaml:"journals,omitempty"`
}
