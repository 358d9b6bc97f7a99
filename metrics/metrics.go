// Package metrics defines the optional analytics event sink notified
// about suggestion lifecycle events.
package metrics

import (
	"context"
	"time"
)

// EventType represents the type of metrics event.
type EventType string

const (
	EventShown     EventType = "shown"     // Suggestion was displayed to the user
	EventAccepted  EventType = "accepted"  // User applied the suggestion
	EventDismissed EventType = "dismissed" // User dismissed the suggestion
)

// SuggestionInfo holds metadata about a suggestion for tracking.
type SuggestionInfo struct {
	ID         string    // Suggestion ID, carries the source prefix
	Kind       string    // grammar, tone, persuasion
	Confidence float64   // Producer-reported confidence
	ShownAt    time.Time // When the suggestion became visible
}

// Event is one lifecycle notification.
type Event struct {
	Type EventType
	Info SuggestionInfo
}

// Sender receives lifecycle events. Implementations must be safe to
// call from the engine's event loop and should never block on delivery;
// the engine guarantees Info.ID is non-empty. A no-op implementation is
// a valid substitute.
type Sender interface {
	SendMetric(ctx context.Context, event Event)
}

// Nop is a Sender that discards every event.
type Nop struct{}

func (Nop) SendMetric(context.Context, Event) {}
