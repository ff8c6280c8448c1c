package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "vault-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	AIConfig `yaml:",inline"`

	// MaxInputChars caps the document text sent to the AI API (default 20000).
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars"`
}

// IngestConfig holds settings for document loading and batch processing.
type IngestConfig struct {
	// SourceDir is the directory scanned in batch mode for input documents.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// VaultDir is the directory where rendered notes are written.
	VaultDir string `json:"vault_dir" yaml:"vault_dir"`

	// LedgerPath is the SQLite ledger tracking processed source files
	// (default ".vault/ledger.db").
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`
}

// IndexConfig holds settings for the vault index.
type IndexConfig struct {
	// IndexPath is the JSON index file (default ".vault/index.json").
	IndexPath string `json:"index_path" yaml:"index_path"`
}

// LinkerConfig holds settings for automatic link generation.
type LinkerConfig struct {
	// MinConfidence is the minimum similarity score for a link (default 0.3).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// MaxResults caps the number of links generated per note (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Mutual controls whether the link target's own outbound edges are
	// updated as well. Off by default: a new note gains outbound edges,
	// targets gain only backlinks.
	Mutual bool `json:"mutual" yaml:"mutual"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Linker    LinkerConfig    `json:"linker" yaml:"linker"`
}
