// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

const paperColumns = `id, title, authors, journal_code, journal_name, year,
	abstract, source_url, pdf_url, pdf_path, citation_count, keywords,
	methodology, data_sources, analysis_methods, key_findings, theoretical_framework`

// PaperByID returns one paper, or sql.ErrNoRows wrapped when absent.
func (s *Store) PaperByID(ctx context.Context, id int64) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE id = ?`, id)
	paper, err := scanPaper(row)
	if err != nil {
		return nil, fmt.Errorf("loading paper %d: %w", id, err)
	}
	return paper, nil
}

// UnanalyzedPapers returns papers with no analysis row, oldest first.
// limit <= 0 means no limit.
func (s *Store) UnanalyzedPapers(ctx context.Context, limit int) ([]types.Paper, error) {
	query := `SELECT ` + paperColumns + ` FROM papers p
		WHERE NOT EXISTS (SELECT 1 FROM analyses a WHERE a.paper_id = p.id)
		ORDER BY p.id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying unanalyzed papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, *paper)
	}
	return papers, rows.Err()
}

// TopPapers returns the n highest-scored analyzed papers, ordered by
// success score descending then citation count descending.
func (s *Store) TopPapers(ctx context.Context, n int) ([]types.ScoredPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.authors, p.journal_code, p.journal_name, p.year,
			p.abstract, p.source_url, p.pdf_url, p.pdf_path, p.citation_count, p.keywords,
			p.methodology, p.data_sources, p.analysis_methods, p.key_findings, p.theoretical_framework,
			a.id, a.success_score, a.data_quality_score, a.methodology_rigor_score,
			a.theoretical_contribution_score, a.novelty_score, a.impact_score,
			a.key_success_factors, a.methodology_details, a.data_characteristics,
			a.analytical_approach, a.recommendations
		 FROM papers p
		 JOIN analyses a ON a.paper_id = p.id
		 ORDER BY a.success_score DESC, p.citation_count DESC
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying top papers: %w", err)
	}
	defer rows.Close()

	var out []types.ScoredPaper
	for rows.Next() {
		var sp types.ScoredPaper
		var (
			authors, journalName, abstract, sourceURL, pdfURL, pdfPath sql.NullString
			keywords, methodology, dataSources, analysisMethods        sql.NullString
			keyFindings, theoreticalFramework                          sql.NullString
			year                                                       sql.NullInt64
			ksf, methDetails, dataChars, approach, recommendations     sql.NullString
			success, dq, rigor, theory, novelty, impact                sql.NullFloat64
		)
		err := rows.Scan(
			&sp.Paper.ID, &sp.Paper.Title, &authors, &sp.Paper.JournalCode, &journalName,
			&year, &abstract, &sourceURL, &pdfURL, &pdfPath, &sp.Paper.CitationCount,
			&keywords, &methodology, &dataSources, &analysisMethods, &keyFindings,
			&theoreticalFramework,
			&sp.Analysis.ID, &success, &dq, &rigor, &theory, &novelty, &impact,
			&ksf, &methDetails, &dataChars, &approach, &recommendations,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning scored paper: %w", err)
		}

		sp.Paper.JournalName = journalName.String
		sp.Paper.Year = int(year.Int64)
		sp.Paper.Abstract = abstract.String
		sp.Paper.SourceURL = sourceURL.String
		sp.Paper.PDFURL = pdfURL.String
		sp.Paper.PDFPath = pdfPath.String
		sp.Paper.Authors = decodeStringList(authors.String)
		sp.Paper.Keywords = decodeStringList(keywords.String)
		sp.Paper.Methodology = methodology.String
		sp.Paper.DataSources = decodeStringList(dataSources.String)
		sp.Paper.AnalysisMethods = decodeStringList(analysisMethods.String)
		sp.Paper.KeyFindings = keyFindings.String
		sp.Paper.TheoreticalFramework = theoreticalFramework.String

		sp.Analysis.PaperID = sp.Paper.ID
		sp.Analysis.SuccessScore = success.Float64
		sp.Analysis.DataQuality = dq.Float64
		sp.Analysis.MethodologyRigor = rigor.Float64
		sp.Analysis.TheoreticalContribution = theory.Float64
		sp.Analysis.Novelty = novelty.Float64
		sp.Analysis.Impact = impact.Float64
		sp.Analysis.KeySuccessFactors = json.RawMessage(ksf.String)
		sp.Analysis.MethodologyDetails = json.RawMessage(methDetails.String)
		sp.Analysis.DataCharacteristics = json.RawMessage(dataChars.String)
		sp.Analysis.AnalyticalApproach = json.RawMessage(approach.String)
		sp.Analysis.Recommendations = decodeStringList(recommendations.String)

		out = append(out, sp)
	}
	return out, rows.Err()
}

// IdeaByID returns one research idea.
func (s *Store) IdeaByID(ctx context.Context, id int64) (*types.ResearchIdea, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, based_on_papers, research_question,
			methodology, required_data, expected_contribution,
			feasibility_score, novelty_score, status
		 FROM ideas WHERE id = ?`, id)
	idea, err := scanIdea(row)
	if err != nil {
		return nil, fmt.Errorf("loading idea %d: %w", id, err)
	}
	return idea, nil
}

// IdeasByStatus returns ideas with the given status ordered by novelty
// descending. An empty status returns all ideas.
func (s *Store) IdeasByStatus(ctx context.Context, status types.IdeaStatus) ([]types.ResearchIdea, error) {
	query := `SELECT id, title, description, based_on_papers, research_question,
			methodology, required_data, expected_contribution,
			feasibility_score, novelty_score, status
		 FROM ideas`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY novelty_score DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	var ideas []types.ResearchIdea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

// DatasetsForIdea returns the candidates matched to an idea, ordered by
// relevance descending.
func (s *Store) DatasetsForIdea(ctx context.Context, ideaID int64) ([]types.DatasetCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, idea_id, name, source, url, description, data_type,
			variables, time_period, geography, accessibility, relevance_score
		 FROM datasets WHERE idea_id = ?
		 ORDER BY relevance_score DESC`, ideaID)
	if err != nil {
		return nil, fmt.Errorf("querying datasets for idea %d: %w", ideaID, err)
	}
	defer rows.Close()

	var out []types.DatasetCandidate
	for rows.Next() {
		var ds types.DatasetCandidate
		var source, url, description, dataType, variables sql.NullString
		var timePeriod, geography, accessibility sql.NullString
		var relevance sql.NullFloat64
		err := rows.Scan(&ds.ID, &ds.IdeaID, &ds.Name, &source, &url, &description,
			&dataType, &variables, &timePeriod, &geography, &accessibility, &relevance)
		if err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		ds.Source = source.String
		ds.URL = url.String
		ds.Description = description.String
		ds.DataType = dataType.String
		ds.Variables = decodeStringList(variables.String)
		ds.TimePeriod = timePeriod.String
		ds.Geography = geography.String
		ds.Accessibility = accessibility.String
		ds.RelevanceScore = relevance.Float64
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Patterns returns all mined patterns ordered by frequency descending.
func (s *Store) Patterns(ctx context.Context) ([]types.SuccessPattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pattern_type, description, frequency, example_papers, journals
		 FROM patterns ORDER BY frequency DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying patterns: %w", err)
	}
	defer rows.Close()

	var out []types.SuccessPattern
	for rows.Next() {
		var p types.SuccessPattern
		var patternType, description, examplePapers, journals sql.NullString
		err := rows.Scan(&p.ID, &patternType, &description, &p.Frequency,
			&examplePapers, &journals)
		if err != nil {
			return nil, fmt.Errorf("scanning pattern: %w", err)
		}
		p.PatternType = patternType.String
		p.Description = description.String
		p.ExamplePapers = decodeStringList(examplePapers.String)
		p.Journals = decodeStringList(journals.String)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stats summarizes the store contents for status output and reports.
type Stats struct {
	Papers   int `json:"papers" yaml:"papers"`
	Analyses int `json:"analyses" yaml:"analyses"`
	Ideas    int `json:"ideas" yaml:"ideas"`
	Datasets int `json:"datasets" yaml:"datasets"`
	Patterns int `json:"patterns" yaml:"patterns"`

	AvgSuccessScore float64 `json:"avg_success_score" yaml:"avg_success_score"`
	AvgNoveltyScore float64 `json:"avg_novelty_score" yaml:"avg_novelty_score"`
}

// CollectStats counts rows per table and averages the headline scores.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	var st Stats

	counts := []struct {
		table string
		dst   *int
	}{
		{"papers", &st.Papers},
		{"analyses", &st.Analyses},
		{"ideas", &st.Ideas},
		{"datasets", &st.Datasets},
		{"patterns", &st.Patterns},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM `+c.table).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}

	var avgSuccess, avgNovelty sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT avg(success_score) FROM analyses`).Scan(&avgSuccess); err != nil {
		return Stats{}, fmt.Errorf("averaging success scores: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT avg(novelty_score) FROM ideas`).Scan(&avgNovelty); err != nil {
		return Stats{}, fmt.Errorf("averaging idea novelty: %w", err)
	}
	st.AvgSuccessScore = avgSuccess.Float64
	st.AvgNoveltyScore = avgNovelty.Float64

	return st, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (*types.Paper, error) {
	var p types.Paper
	var (
		authors, journalName, abstract, sourceURL, pdfURL, pdfPath sql.NullString
		keywords, methodology, dataSources, analysisMethods        sql.NullString
		keyFindings, theoreticalFramework                          sql.NullString
		year                                                       sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Title, &authors, &p.JournalCode, &journalName, &year,
		&abstract, &sourceURL, &pdfURL, &pdfPath, &p.CitationCount, &keywords,
		&methodology, &dataSources, &analysisMethods, &keyFindings, &theoreticalFramework)
	if err != nil {
		return nil, err
	}
	p.Authors = decodeStringList(authors.String)
	p.JournalName = journalName.String
	p.Year = int(year.Int64)
	p.Abstract = abstract.String
	p.SourceURL = sourceURL.String
	p.PDFURL = pdfURL.String
	p.PDFPath = pdfPath.String
	p.Keywords = decodeStringList(keywords.String)
	p.Methodology = methodology.String
	p.DataSources = decodeStringList(dataSources.String)
	p.AnalysisMethods = decodeStringList(analysisMethods.String)
	p.KeyFindings = keyFindings.String
	p.TheoreticalFramework = theoreticalFramework.String
	return &p, nil
}

func scanIdea(row scanner) (*types.ResearchIdea, error) {
	var idea types.ResearchIdea
	var (
		description, basedOn, question, methodology sql.NullString
		requiredData, contribution, status          sql.NullString
		feasibility, novelty                        sql.NullFloat64
	)
	err := row.Scan(&idea.ID, &idea.Title, &description, &basedOn, &question,
		&methodology, &requiredData, &contribution, &feasibility, &novelty, &status)
	if err != nil {
		return nil, err
	}
	idea.Description = description.String
	idea.BasedOnPapers = decodeStringList(basedOn.String)
	idea.ResearchQuestion = question.String
	idea.Methodology = methodology.String
	idea.RequiredData = decodeStringList(requiredData.String)
	idea.ExpectedContribution = contribution.String
	idea.FeasibilityScore = feasibility.Float64
	idea.NoveltyScore = novelty.Float64
	idea.Status = types.IdeaStatus(status.String)
	return &idea, nil
}

// decodeStringList decodes a JSON list column. A non-list, non-empty value
// is coerced to a single-element list rather than rejected, since AI
// responses sometimes supply a scalar where a list is expected.
func decodeStringList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" || s == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list
	}
	var scalar string
	if err := json.Unmarshal([]byte(s), &scalar); err == nil {
		if scalar == "" {
			return nil
		}
		return []string{scalar}
	}
	return []string{s}
}
