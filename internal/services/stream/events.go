// Package stream defines the observation events emitted while a selection
// runs. Events are purely observational: observers may log or collect them,
// but they never influence traversal or admission decisions.
package stream

import (
	"go.uber.org/zap"

	"github.com/mcochner/codegrab/internal/types"
)

// EventKind identifies the category of an observation event.
type EventKind string

const (
	// EventKindPrunedDirectory reports a directory subtree skipped without being opened.
	EventKindPrunedDirectory EventKind = "pruned_directory"
	// EventKindAdmittedFile reports a candidate admitted into the rendered output.
	EventKindAdmittedFile EventKind = "admitted_file"
	// EventKindSkippedFile reports a candidate rejected, with its decision as the reason.
	EventKindSkippedFile EventKind = "skipped_file"
	// EventKindWarning reports a recoverable condition such as an unreadable directory.
	EventKindWarning EventKind = "warning"
)

// Event is one observation emitted during selection or rendering.
type Event struct {
	Kind     EventKind
	Path     string
	Decision types.AdmissionDecision
	Message  string
}

// Observer consumes events in emission order.
type Observer interface {
	Observe(event Event)
}

// NoopObserver discards every event.
type NoopObserver struct{}

// Observe implements Observer.
func (NoopObserver) Observe(Event) {}

// CollectingObserver records events in emission order for later inspection.
type CollectingObserver struct {
	Events []Event
}

// Observe appends the event to the collected sequence.
func (observer *CollectingObserver) Observe(event Event) {
	observer.Events = append(observer.Events, event)
}

// LoggerObserver forwards events to a zap logger.
type LoggerObserver struct {
	Logger *zap.Logger
}

// NewLoggerObserver constructs a LoggerObserver around the provided logger.
func NewLoggerObserver(logger *zap.Logger) *LoggerObserver {
	return &LoggerObserver{Logger: logger}
}

// Observe logs the event at a level matching its kind.
func (observer *LoggerObserver) Observe(event Event) {
	if observer == nil || observer.Logger == nil {
		return
	}
	switch event.Kind {
	case EventKindWarning:
		observer.Logger.Warn(event.Message, zap.String("path", event.Path))
	case EventKindSkippedFile:
		observer.Logger.Info("skipped file", zap.String("path", event.Path), zap.String("reason", string(event.Decision)))
	case EventKindPrunedDirectory:
		observer.Logger.Info("pruned directory", zap.String("path", event.Path))
	case EventKindAdmittedFile:
		observer.Logger.Info("admitted file", zap.String("path", event.Path))
	}
}

var (
	_ Observer = NoopObserver{}
	_ Observer = (*CollectingObserver)(nil)
	_ Observer = (*LoggerObserver)(nil)
)
