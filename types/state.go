package types

import "time"

// RunState represents the pipeline state machine. Transitions are strictly
// forward: Idle -> Collecting -> Verifying -> Reporting -> Filtering ->
// Complete, with Failed reachable from any non-terminal state.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateCollecting RunState = "collecting"
	StateVerifying  RunState = "verifying"
	StateReporting  RunState = "reporting"
	StateFiltering  RunState = "filtering"
	StateComplete   RunState = "complete"
	StateFailed     RunState = "failed"
)

// Terminal reports whether the state accepts no further transitions.
func (s RunState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// StatusEvent is a timestamped progress notification emitted at stage
// boundaries. Events for a single run are totally ordered in emission order.
type StatusEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"status"`
}

// Snapshot is the poll-style view of a run, answerable without a streaming
// consumer attached.
type Snapshot struct {
	Query          string   `json:"query"`
	State          RunState `json:"state"`
	CollectedCount int      `json:"collected_count"`
	VerifiedCount  int      `json:"verified_count"`
	HasDraft       bool     `json:"has_draft"`
	IsComplete     bool     `json:"is_complete"`
	Error          string   `json:"error,omitempty"`
}
