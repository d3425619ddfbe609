package digest

import (
	"context"
	"time"
)

// Fetcher renders a page and classifies the navigation result. Failure is
// encoded in the outcome, not in a separate error value, so callers handle
// every case through the sum type.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) FetchOutcome
}

// Extractor converts rendered markup into boilerplate-free text.
type Extractor interface {
	Extract(ctx context.Context, markup string) ExtractionOutcome
}

// Answerer runs the answering sub-process over extracted content.
type Answerer interface {
	Answer(ctx context.Context, content, instruction string) AnswerOutcome
	// Available reports whether the answering sub-process can be launched
	// at all; the decision engine degrades to raw output when it cannot.
	Available() bool
}

// Cache stores extracted text keyed by normalized locator. Implementations
// must tolerate concurrent reads and writes; whole-entry overwrites with
// last-writer-wins semantics are sufficient.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, content string)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
