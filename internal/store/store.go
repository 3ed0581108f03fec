// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, analyses, ideas, dataset candidates, and
// mined patterns in a single SQLite database. The store is the only state
// shared between pipeline stages; one pipeline run at a time is assumed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

const dbFile = "research.db"

// Store manages the research SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open creates or opens the database at dataDir/research.db, creating the
// directory and schema if absent.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the base directory holding the database, PDFs, and reports.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			authors TEXT,
			journal_code TEXT NOT NULL,
			journal_name TEXT,
			year INTEGER,
			abstract TEXT,
			source_url TEXT,
			pdf_url TEXT,
			pdf_path TEXT,
			citation_count INTEGER DEFAULT 0,
			keywords TEXT,
			methodology TEXT,
			data_sources TEXT,
			analysis_methods TEXT,
			key_findings TEXT,
			theoretical_framework TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(title, journal_code)
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id INTEGER NOT NULL REFERENCES papers(id),
			success_score REAL,
			data_quality_score REAL,
			methodology_rigor_score REAL,
			theoretical_contribution_score REAL,
			novelty_score REAL,
			impact_score REAL,
			key_success_factors TEXT,
			methodology_details TEXT,
			data_characteristics TEXT,
			analytical_approach TEXT,
			recommendations TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_paper_id ON analyses(paper_id)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			based_on_papers TEXT,
			research_question TEXT,
			methodology TEXT,
			required_data TEXT,
			expected_contribution TEXT,
			feasibility_score REAL,
			novelty_score REAL,
			status TEXT DEFAULT 'generated',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			idea_id INTEGER NOT NULL REFERENCES ideas(id),
			name TEXT NOT NULL,
			source TEXT,
			url TEXT,
			description TEXT,
			data_type TEXT,
			variables TEXT,
			time_period TEXT,
			geography TEXT,
			accessibility TEXT,
			relevance_score REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_idea_id ON datasets(idea_id)`,
		`CREATE TABLE IF NOT EXISTS patterns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern_type TEXT,
			description TEXT,
			frequency INTEGER DEFAULT 1,
			example_papers TEXT,
			journals TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// InsertPaper inserts a paper, silently ignoring duplicates of the same
// (title, journal_code) pair. It reports whether a new row was created and
// sets paper.ID on insertion.
func (s *Store) InsertPaper(ctx context.Context, paper *types.Paper) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO papers
		 (title, authors, journal_code, journal_name, year, abstract, source_url,
		  pdf_url, pdf_path, citation_count, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		paper.Title, marshalList(paper.Authors), paper.JournalCode, paper.JournalName,
		paper.Year, paper.Abstract, paper.SourceURL, paper.PDFURL, paper.PDFPath,
		paper.CitationCount, marshalList(paper.Keywords),
	)
	if err != nil {
		return false, fmt.Errorf("inserting paper: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("reading inserted paper id: %w", err)
	}
	paper.ID = id
	return true, nil
}

// UpdatePaperPDFPath records the local path of a downloaded PDF.
func (s *Store) UpdatePaperPDFPath(ctx context.Context, paperID int64, path string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE papers SET pdf_path = ? WHERE id = ?`, path, paperID)
	if err != nil {
		return fmt.Errorf("updating paper pdf path: %w", err)
	}
	return nil
}

// EnrichPaper writes the post-analysis enrichment fields onto a paper row.
func (s *Store) EnrichPaper(ctx context.Context, paper *types.Paper) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE papers SET
			keywords = ?, methodology = ?, data_sources = ?,
			analysis_methods = ?, key_findings = ?, theoretical_framework = ?
		 WHERE id = ?`,
		marshalList(paper.Keywords), paper.Methodology, marshalList(paper.DataSources),
		marshalList(paper.AnalysisMethods), paper.KeyFindings, paper.TheoreticalFramework,
		paper.ID,
	)
	if err != nil {
		return fmt.Errorf("enriching paper %d: %w", paper.ID, err)
	}
	return nil
}

// InsertAnalysis inserts an analysis row linked to its paper and sets
// analysis.ID.
func (s *Store) InsertAnalysis(ctx context.Context, analysis *types.Analysis) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses
		 (paper_id, success_score, data_quality_score, methodology_rigor_score,
		  theoretical_contribution_score, novelty_score, impact_score,
		  key_success_factors, methodology_details, data_characteristics,
		  analytical_approach, recommendations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.PaperID, analysis.SuccessScore, analysis.DataQuality,
		analysis.MethodologyRigor, analysis.TheoreticalContribution,
		analysis.Novelty, analysis.Impact,
		rawJSON(analysis.KeySuccessFactors), rawJSON(analysis.MethodologyDetails),
		rawJSON(analysis.DataCharacteristics), rawJSON(analysis.AnalyticalApproach),
		marshalList(analysis.Recommendations),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis for paper %d: %w", analysis.PaperID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted analysis id: %w", err)
	}
	analysis.ID = id
	return nil
}

// InsertIdea inserts a research idea and sets idea.ID. An empty status
// defaults to "generated".
func (s *Store) InsertIdea(ctx context.Context, idea *types.ResearchIdea) error {
	status := idea.Status
	if status == "" {
		status = types.IdeaGenerated
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ideas
		 (title, description, based_on_papers, research_question, methodology,
		  required_data, expected_contribution, feasibility_score, novelty_score, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idea.Title, idea.Description, marshalList(idea.BasedOnPapers),
		idea.ResearchQuestion, idea.Methodology, marshalList(idea.RequiredData),
		idea.ExpectedContribution, idea.FeasibilityScore, idea.NoveltyScore, string(status),
	)
	if err != nil {
		return fmt.Errorf("inserting idea %q: %w", idea.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted idea id: %w", err)
	}
	idea.ID = id
	idea.Status = status
	return nil
}

// UpdateIdeaEvaluation persists re-scored feasibility/novelty and marks the
// idea evaluated. The status transition is an explicit write, not a side
// effect of reading.
func (s *Store) UpdateIdeaEvaluation(ctx context.Context, ideaID int64, feasibility, novelty float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET feasibility_score = ?, novelty_score = ?, status = ? WHERE id = ?`,
		feasibility, novelty, string(types.IdeaEvaluated), ideaID)
	if err != nil {
		return fmt.Errorf("updating idea %d evaluation: %w", ideaID, err)
	}
	return nil
}

// InsertDatasets inserts a batch of dataset candidates for one idea in a
// single transaction.
func (s *Store) InsertDatasets(ctx context.Context, ideaID int64, datasets []types.DatasetCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO datasets
		 (idea_id, name, source, url, description, data_type, variables,
		  time_period, geography, accessibility, relevance_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing dataset insert: %w", err)
	}
	defer stmt.Close()

	for _, ds := range datasets {
		_, err := stmt.ExecContext(ctx,
			ideaID, ds.Name, ds.Source, ds.URL, ds.Description, ds.DataType,
			marshalList(ds.Variables), ds.TimePeriod, ds.Geography,
			ds.Accessibility, ds.RelevanceScore,
		)
		if err != nil {
			return fmt.Errorf("inserting dataset %q: %w", ds.Name, err)
		}
	}

	return tx.Commit()
}

// InsertPatterns inserts a batch of mined patterns in a single transaction.
// Nothing is persisted if any insert fails.
func (s *Store) InsertPatterns(ctx context.Context, patterns []types.SuccessPattern) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patterns (pattern_type, description, frequency, example_papers, journals)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing pattern insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range patterns {
		freq := p.Frequency
		if freq <= 0 {
			freq = 1
		}
		_, err := stmt.ExecContext(ctx,
			p.PatternType, p.Description, freq,
			marshalList(p.ExamplePapers), marshalList(p.Journals),
		)
		if err != nil {
			return fmt.Errorf("inserting pattern %q: %w", p.PatternType, err)
		}
	}

	return tx.Commit()
}

// marshalList encodes a string list as a JSON column value. Nil encodes as
// an empty list.
func marshalList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

// rawJSON passes a free-form JSON field through to a TEXT column.
func rawJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
