package digest

// RawReturnThreshold is the content length boundary, in characters, below
// which extracted text is returned directly instead of summarized.
const RawReturnThreshold = 50_000

// DecisionKind enumerates the output strategies the orchestrator can select.
type DecisionKind string

// Output strategies, computed deterministically from the invocation shape.
const (
	DecisionReturnRaw    DecisionKind = "return_raw"
	DecisionSummarize    DecisionKind = "summarize"
	DecisionAnswerPrompt DecisionKind = "answer_prompt"
	DecisionFallbackRaw  DecisionKind = "fallback_raw"
)

// Decision pairs a strategy with an optional note surfaced to the caller
// when the strategy is a degraded fallback.
type Decision struct {
	Kind DecisionKind
	Note string
}

// Decide applies the output strategy table. It is a pure function of the
// three inputs; the orchestrator never consults anything else to pick a
// strategy.
func Decide(promptPresent bool, contentLength int, answererAvailable bool) Decision {
	if promptPresent {
		if answererAvailable {
			return Decision{Kind: DecisionAnswerPrompt}
		}
		return Decision{Kind: DecisionFallbackRaw, Note: ReasonUnavailable}
	}
	if contentLength <= RawReturnThreshold {
		return Decision{Kind: DecisionReturnRaw}
	}
	if answererAvailable {
		return Decision{Kind: DecisionSummarize}
	}
	// Oversized content with no answerer: truncated raw, no failure note.
	return Decision{Kind: DecisionReturnRaw}
}
