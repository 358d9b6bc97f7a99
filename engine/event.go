package engine

import "redline/types"

// EventType identifies an event on the engine's loop.
type EventType string

const (
	EventTextChanged      EventType = "text_changed"
	EventImmediateTimeout EventType = "immediate_timeout"
	EventIdleTimeout      EventType = "idle_timeout"
	EventAnalyzeRequested EventType = "analyze_requested"
	EventAnalysisReady    EventType = "analysis_ready"
	EventAnalysisError    EventType = "analysis_error"
)

// Event is one unit of work for the event loop.
type Event struct {
	Type EventType
	Data any
}

// textChange carries a full buffer snapshot after a keystroke. The
// engine diffs it against the previous snapshot itself; callers never
// describe the edit.
type textChange struct {
	Text  string
	Caret int
}

// analysisOutcome is the payload of EventAnalysisReady.
type analysisOutcome struct {
	suggestions []*types.Suggestion
	manual      bool
}

// analysisFailure is the payload of EventAnalysisError.
type analysisFailure struct {
	err    error
	manual bool
}
