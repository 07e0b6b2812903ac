// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceDisposal selects what happens to a source document after its PDF has
// been produced.
type SourceDisposal string

const (
	// DisposalKeep leaves the source document in place.
	DisposalKeep SourceDisposal = "keep"
	// DisposalDelete removes the source document.
	DisposalDelete SourceDisposal = "delete"
	// DisposalMove relocates the source document into a processed/
	// subdirectory of the input directory.
	DisposalMove SourceDisposal = "move"
)

// DriveConfig holds settings for the remote conversion client and the
// credential provider.
type DriveConfig struct {
	// CredentialsPath is the OAuth client configuration JSON
	// (default "credentials.json").
	CredentialsPath string `json:"credentials_path" yaml:"credentials_path"`

	// TokenPath is where the refreshable user token is cached between runs
	// (default "token.json").
	TokenPath string `json:"token_path" yaml:"token_path"`

	// RemoteFolder is the display name of the remote folder uploads are
	// parented under. Found by name, created when absent.
	RemoteFolder string `json:"remote_folder" yaml:"remote_folder"`

	// Timeout is the HTTP request timeout for remote calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries bounds backoff retries on transient failures (429 and 5xx).
	// Zero disables retrying.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig holds settings for the per-file conversion pipeline.
type PipelineConfig struct {
	// InputDir is the directory scanned (or watched) for source documents.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory converted PDFs are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// WatchMode selects watching the input directory for new files instead
	// of a one-shot scan.
	WatchMode bool `json:"watch_mode" yaml:"watch_mode"`

	// SourceDisposal selects what happens to a source document after a
	// successful conversion: keep, delete, or move.
	SourceDisposal SourceDisposal `json:"source_disposal" yaml:"source_disposal"`
}

// HistoryConfig holds settings for the conversion history ledger.
type HistoryConfig struct {
	// DBPath is the SQLite database file (default "driveconv.db").
	// Empty disables history recording.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of rows listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Drive    DriveConfig    `json:"drive" yaml:"drive"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
