// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model: source files, remote objects,
// per-file job states, and the configuration structs for each stage.
package types

import "time"

// JobState is the position of a single file inside the conversion pipeline.
// A job moves Pending → Uploaded → Converted → Cleaned; Errored absorbs a
// failure from any non-terminal state.
type JobState string

const (
	StatePending   JobState = "pending"
	StateUploaded  JobState = "uploaded"
	StateConverted JobState = "converted"
	StateCleaned   JobState = "cleaned"
	StateErrored   JobState = "errored"
)

// Terminal reports whether the state ends a job's run.
func (s JobState) Terminal() bool {
	return s == StateCleaned || s == StateErrored
}

// SourceFile is a local document queued for conversion. It is immutable once
// produced by the enumerator or the watcher.
type SourceFile struct {
	// Path is the absolute or working-directory-relative path to the document.
	Path string `json:"path" yaml:"path"`

	// MIME is the document's own media type, derived from its extension
	// (e.g. "application/msword" for .doc).
	MIME string `json:"mime" yaml:"mime"`

	// TargetMIME is the provider-native format the upload converts into
	// (Google Doc for word documents, Google Slides for presentations).
	TargetMIME string `json:"target_mime" yaml:"target_mime"`
}

// RemoteObject identifies a document stored on the remote provider. The
// pipeline owns it only for the duration of one file's run and deletes it
// before the run ends.
type RemoteObject struct {
	// ID is the provider-side file identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the display name the object was uploaded under.
	Name string `json:"name" yaml:"name"`
}

// Record is one completed pipeline run for one file, as persisted in the
// history ledger.
type Record struct {
	// Source is the local path of the input document.
	Source string `json:"source" yaml:"source"`

	// Output is the local path of the produced PDF, empty when the run failed
	// before the export step completed.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// RemoteID is the provider-side identifier the run created, if any.
	RemoteID string `json:"remote_id,omitempty" yaml:"remote_id,omitempty"`

	// State is the terminal state the job reached (cleaned or errored).
	State JobState `json:"state" yaml:"state"`

	// Error holds the failure message for errored runs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// FinishedAt is when the run ended.
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
