// Package buildpipeline runs diagnostics over a file or directory and
// reports per-file progress.
package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageLoad     Stage = "load"
	StageTokenize Stage = "tokenize"
	StageParse    Stage = "parse"
	StageSema     Stage = "sema"
	// StageDiagnose covers the whole run; events with an empty File use it.
	StageDiagnose Stage = "diagnose"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Sinks are called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}
