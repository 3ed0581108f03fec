// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures passed between pipeline
// stages: configuration, bibliographic records, analyses, ideas, dataset
// candidates, and mined patterns.
package types

import "encoding/json"

// Paper holds one bibliographic record collected from OpenAlex or CrossRef.
// The enrichment fields (Keywords, Methodology through TheoreticalFramework)
// are empty until the paper has been analyzed.
type Paper struct {
	// ID is the store-assigned row identity (0 before insertion).
	ID int64 `json:"id" yaml:"id"`

	// Title is the paper title. (Title, JournalCode) is unique in the store.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// JournalCode is the short registry code (e.g. "JM", "MKSC").
	JournalCode string `json:"journal_code" yaml:"journal_code"`

	// JournalName is the full journal name.
	JournalName string `json:"journal_name,omitempty" yaml:"journal_name,omitempty"`

	// Year is the publication year.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is the paper abstract, reconstructed from the inverted
	// index when collected via OpenAlex.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// SourceURL is the landing page or DOI URL.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// PDFURL is the open-access PDF location, when the source reports one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// PDFPath is the local filesystem path to a downloaded PDF.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	// CitationCount is the citation count reported by the source.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Keywords holds topic terms: source concepts at collection time,
	// replaced by extracted keywords after analysis.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	Methodology          string   `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	DataSources          []string `json:"data_sources,omitempty" yaml:"data_sources,omitempty"`
	AnalysisMethods      []string `json:"analysis_methods,omitempty" yaml:"analysis_methods,omitempty"`
	KeyFindings          string   `json:"key_findings,omitempty" yaml:"key_findings,omitempty"`
	TheoreticalFramework string   `json:"theoretical_framework,omitempty" yaml:"theoretical_framework,omitempty"`
}

// Analysis is the structured publishability assessment for one paper.
// Sub-scores are on a 0-100 scale. The RawMessage fields hold free-form
// JSON objects returned by the assessment call and are stored verbatim.
type Analysis struct {
	ID      int64 `json:"id" yaml:"id"`
	PaperID int64 `json:"paper_id" yaml:"paper_id"`

	// SuccessScore is the weighted composite of the sub-scores.
	// TheoreticalContribution is stored but carries no weight.
	SuccessScore            float64 `json:"success_score" yaml:"success_score"`
	DataQuality             float64 `json:"data_quality_score" yaml:"data_quality_score"`
	MethodologyRigor        float64 `json:"methodology_rigor_score" yaml:"methodology_rigor_score"`
	TheoreticalContribution float64 `json:"theoretical_contribution_score" yaml:"theoretical_contribution_score"`
	Novelty                 float64 `json:"novelty_score" yaml:"novelty_score"`
	Impact                  float64 `json:"impact_score" yaml:"impact_score"`

	KeySuccessFactors   json.RawMessage `json:"key_success_factors,omitempty" yaml:"-"`
	MethodologyDetails  json.RawMessage `json:"methodology_details,omitempty" yaml:"-"`
	DataCharacteristics json.RawMessage `json:"data_characteristics,omitempty" yaml:"-"`
	AnalyticalApproach  json.RawMessage `json:"analytical_approach,omitempty" yaml:"-"`

	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// ScoredPaper pairs a paper with its analysis for ranked queries.
type ScoredPaper struct {
	Paper    Paper    `json:"paper" yaml:"paper"`
	Analysis Analysis `json:"analysis" yaml:"analysis"`
}
