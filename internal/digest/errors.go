package digest

import "errors"

// Sentinel errors forming the pipeline failure taxonomy. Stage drivers and
// the orchestrator wrap these with fmt.Errorf("...: %w", ...) so callers can
// classify failures with errors.Is.
var (
	// ErrInvalidLocator marks input that is unparsable or carries an
	// unsupported scheme. No process is spawned for such input.
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrTimeout marks a navigation that exceeded its fixed budget.
	ErrTimeout = errors.New("timeout")

	// ErrNetwork marks a navigation or connection failure.
	ErrNetwork = errors.New("network failure")

	// ErrProcessLaunch marks an external process that could not be started.
	ErrProcessLaunch = errors.New("process launch failed")

	// ErrProcessExit marks an external process that exited nonzero.
	ErrProcessExit = errors.New("process exit failure")

	// ErrEmptyOutput marks a process that exited cleanly but produced
	// nothing usable.
	ErrEmptyOutput = errors.New("empty output")

	// ErrAborted marks work pre-empted by the invocation's cancellation
	// signal. It takes precedence over every other classification.
	ErrAborted = errors.New("aborted")
)

// Reason strings carried inside stage outcomes. The orchestrator surfaces
// these verbatim in fallback notes and error results.
const (
	ReasonTimeout     = "timeout"
	ReasonAborted     = "aborted"
	ReasonNoContent   = "no content extracted"
	ReasonNoResponse  = "no response"
	ReasonUnavailable = "answerer unavailable"
)
