package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens is the response token limit per request (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// DataDir is the base directory for the database file, downloaded
	// PDFs, and generated reports (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CollectConfig holds settings for the collection stage.
type CollectConfig struct {
	HTTPConfig `yaml:",inline"`

	// FromYear and ToYear bound the publication year range (default 2020-2025).
	FromYear int `json:"from_year" yaml:"from_year"`
	ToYear   int `json:"to_year" yaml:"to_year"`

	// Journals limits collection to these journal codes. Empty means all
	// registered journals.
	Journals []string `json:"journals" yaml:"journals"`

	// MaxPerJournal caps the number of papers fetched per journal (default 200).
	MaxPerJournal int `json:"max_per_journal" yaml:"max_per_journal"`

	// Mailto identifies the caller to OpenAlex and CrossRef for polite-pool
	// access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// RequestDelay is the pause between consecutive API requests (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// DownloadPDFs enables fetching open-access PDFs into DataDir/pdfs/.
	DownloadPDFs bool `json:"download_pdfs" yaml:"download_pdfs"`
}

// AnalyzeConfig holds settings for the paper analysis stage.
type AnalyzeConfig struct {
	AIConfig `yaml:",inline"`

	// Limit caps how many unanalyzed papers a single run processes
	// (0 = no limit).
	Limit int `json:"limit" yaml:"limit"`

	// RequestDelay is the pause between consecutive AI calls (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// PatternsConfig holds settings for the pattern mining stage.
type PatternsConfig struct {
	AIConfig `yaml:",inline"`

	// TopPapers is how many top-scored papers feed the combined mining
	// prompt (default 30).
	TopPapers int `json:"top_papers" yaml:"top_papers"`
}

// IdeasConfig holds settings for the idea generation stage.
type IdeasConfig struct {
	AIConfig `yaml:",inline"`

	// TopPapers is how many top-scored papers feed the shared strategy
	// context (default 10).
	TopPapers int `json:"top_papers" yaml:"top_papers"`

	// StrategyDelay is the pause between per-strategy AI calls (default 2s).
	StrategyDelay time.Duration `json:"strategy_delay" yaml:"strategy_delay"`
}

// DatasetsConfig holds settings for the dataset matching stage.
type DatasetsConfig struct {
	HTTPConfig `yaml:",inline"`
	AIConfig   `yaml:",inline"`

	// MaxQueries caps the number of AI-generated search queries per idea
	// (default 7).
	MaxQueries int `json:"max_queries" yaml:"max_queries"`

	// MaxResults is how many scored candidates are kept per idea (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// QueryDelay is the pause between successive query fan-outs (default 1s).
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`

	// DataGovAPIKey is an optional key for catalog.data.gov.
	DataGovAPIKey string `json:"datagov_api_key,omitempty" yaml:"datagov_api_key,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Collect  CollectConfig  `json:"collect" yaml:"collect"`
	Analyze  AnalyzeConfig  `json:"analyze" yaml:"analyze"`
	Patterns PatternsConfig `json:"patterns" yaml:"patterns"`
	Ideas    IdeasConfig    `json:"ideas" yaml:"ideas"`
	Datasets DatasetsConfig `json:"datasets" yaml:"datasets"`

	// StageDelay is the pause inserted between pipeline stages (default 2s).
	StageDelay time.Duration `json:"stage_delay" yaml:"stage_delay"`
}
