package driver

import "time"

// Phase names reported through PhaseObserver and observ timings.
const (
	PhaseLoad     = "load"
	PhaseCache    = "cache"
	PhaseTokenize = "tokenize"
	PhaseParse    = "parse"
	PhaseSema     = "sema"
	// PhaseFile brackets all phases of one file. Its PhaseEnd has Failed
	// set when the file has errors.
	PhaseFile = "file"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Failed is set on PhaseEnd when the phase produced errors.
	Failed bool
}

// PhaseObserver receives phase events. In directory mode it is called from
// worker goroutines and must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)
