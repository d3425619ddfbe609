// Package progress defines the fire-and-forget notification side channel
// emitted at fixed pipeline checkpoints.
package progress

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Checkpoint names a fixed pipeline milestone.
type Checkpoint string

// Checkpoints emitted by the orchestrator. Cache hits emit only
// CheckpointProcessing; misses emit the stage checkpoints as each stage
// starts.
const (
	CheckpointFetching   Checkpoint = "fetching"
	CheckpointExtracting Checkpoint = "extracting"
	CheckpointAnswering  Checkpoint = "processing with answerer"
	CheckpointProcessing Checkpoint = "processing"
)

// Event captures a single progress notification. Notifications carry no
// acknowledgment; emitters must never block on them.
type Event struct {
	// RequestID identifies the invocation emitting the event.
	RequestID string
	// Checkpoint denotes which milestone was reached.
	Checkpoint Checkpoint
	// Locator is the normalized locator being processed.
	Locator string
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RequestID == "" {
		return errors.New("request id is required")
	}
	switch e.Checkpoint {
	case CheckpointFetching, CheckpointExtracting, CheckpointAnswering, CheckpointProcessing:
	default:
		return errors.New("unknown checkpoint")
	}
	return nil
}

// Notifier receives progress events. Implementations must be non-blocking
// and tolerate concurrent calls from parallel invocations.
type Notifier interface {
	Notify(evt Event)
}

// Func adapts a plain function to the Notifier interface.
type Func func(Event)

// Notify invokes the wrapped function. A nil Func discards the event.
func (f Func) Notify(evt Event) {
	if f != nil {
		f(evt)
	}
}

// LogNotifier writes progress events to a zap logger. Useful for
// development and for invocations that did not supply a notifier.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier wires a zap logger to the Notifier interface.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the event using structured fields.
func (n *LogNotifier) Notify(evt Event) {
	n.logger.Info("progress",
		zap.String("request_id", evt.RequestID),
		zap.String("checkpoint", string(evt.Checkpoint)),
		zap.String("locator", evt.Locator),
	)
}
