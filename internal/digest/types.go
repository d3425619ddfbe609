package digest

// FetchOutcome is a closed sum over the results of one page fetch attempt.
// Exactly one of Rendered, Redirected, or FetchFailed is returned per attempt;
// outcomes are never persisted.
type FetchOutcome interface {
	fetchOutcome()
}

// Rendered carries the fully rendered markup and the final settled locator.
type Rendered struct {
	Markup       string
	FinalLocator string
}

// Redirected reports a cross-host redirect target. The page body is not
// retrieved when this outcome is produced.
type Redirected struct {
	TargetLocator string
}

// FetchFailed reports a failed fetch with a short reason ("timeout",
// "aborted", or the underlying navigation error).
type FetchFailed struct {
	Reason string
}

func (Rendered) fetchOutcome()    {}
func (Redirected) fetchOutcome()  {}
func (FetchFailed) fetchOutcome() {}

// ExtractionOutcome is a closed sum over the results of content extraction.
type ExtractionOutcome interface {
	extractionOutcome()
}

// Extracted carries boilerplate-free text produced from rendered markup.
type Extracted struct {
	Text string
}

// ExtractFailed reports an extraction failure together with any diagnostic
// output captured from the extraction tool's stderr.
type ExtractFailed struct {
	Reason     string
	Diagnostic string
}

func (Extracted) extractionOutcome()     {}
func (ExtractFailed) extractionOutcome() {}

// AnswerOutcome is a closed sum over the results of the answering stage.
type AnswerOutcome interface {
	answerOutcome()
}

// Answered carries the final answer text salvaged from the event stream.
type Answered struct {
	Text string
}

// AnswerFailed reports an answering failure with captured diagnostics.
type AnswerFailed struct {
	Reason     string
	Diagnostic string
}

func (Answered) answerOutcome()     {}
func (AnswerFailed) answerOutcome() {}
