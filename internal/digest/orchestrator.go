package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/metrics"
	"github.com/JakeFAU/webdigest/internal/progress"
)

// Guardrails appended to caller instructions so answers stay grounded in
// the fetched page without reproducing it wholesale. Code and documentation
// snippets are exempt from the quoting limits.
const answerGuardrails = "Answer using only the page content above. " +
	"Keep direct quotes under 25 words each and do not reproduce page text " +
	"verbatim outside of quotes. Code samples and documentation snippets are " +
	"exempt from these limits."

// summarizeInstruction is the fixed instruction used when no caller prompt
// is present and the content exceeds the raw-return threshold.
const summarizeInstruction = "Summarize this page. Start with a short " +
	"overview of what the page is, then describe each major section. Close " +
	"by inviting a follow-up request for this same URL with a specific " +
	"prompt, noting that the page is cached and the follow-up will be " +
	"answered without refetching."

// Request is one tool invocation.
type Request struct {
	RequestID   string
	Locator     string
	Instruction string
}

// Result is the textual outcome returned to the host runtime.
type Result struct {
	Content string
	IsError bool
}

// Orchestrator sequences normalize, cache lookup, fetch, extract, and the
// decision table. One Run executes a single sequential pipeline; multiple
// Runs may execute concurrently sharing only the cache.
type Orchestrator struct {
	cache     Cache
	fetcher   Fetcher
	extractor Extractor
	answerer  Answerer
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(cache Cache, fetcher Fetcher, extractor Extractor, answerer Answerer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cache:     cache,
		fetcher:   fetcher,
		extractor: extractor,
		answerer:  answerer,
		logger:    logger,
	}
}

// Run executes the pipeline for one invocation. Progress notifications are
// emitted through notify at fixed checkpoints; a nil notifier discards them.
// Cancellation of ctx pre-empts every stage and yields an "aborted" error
// result rather than any partial success.
func (o *Orchestrator) Run(ctx context.Context, req Request, notify progress.Notifier) Result {
	if notify == nil {
		notify = progress.Func(nil)
	}

	locator, err := NormalizeLocator(req.Locator)
	if err != nil {
		return errorResult(err.Error())
	}
	log := o.logger.With(zap.String("request_id", req.RequestID), zap.String("locator", locator))

	if ctx.Err() != nil {
		return errorResult(ReasonAborted)
	}

	content, hit := o.cache.Get(locator)
	if hit {
		metrics.RecordCacheHit()
		log.Debug("cache hit")
		o.emit(notify, req.RequestID, locator, progress.CheckpointProcessing)
	} else {
		metrics.RecordCacheMiss()
		var res Result
		content, res = o.fetchAndExtract(ctx, req.RequestID, locator, log, notify)
		if res.IsError || content == "" {
			return res
		}
		o.cache.Set(locator, content)
	}

	return o.applyDecision(ctx, req, locator, content, log, notify)
}

// fetchAndExtract runs the miss path. It returns the extracted text, or a
// terminal Result when the pipeline short-circuits (redirect) or fails.
func (o *Orchestrator) fetchAndExtract(ctx context.Context, requestID, locator string, log *zap.Logger, notify progress.Notifier) (string, Result) {
	o.emit(notify, requestID, locator, progress.CheckpointFetching)
	start := time.Now()
	outcome := o.fetcher.Fetch(ctx, locator)
	metrics.ObserveStage("fetch", time.Since(start))

	switch fo := outcome.(type) {
	case Redirected:
		metrics.RecordFetch("redirected")
		// Cross-host redirect: informational result, no extraction, no
		// cache write.
		return "", Result{Content: fmt.Sprintf(
			"The URL redirects to a different host: %s\nFetch that URL directly to retrieve its content.",
			fo.TargetLocator,
		)}
	case FetchFailed:
		metrics.RecordFetch("failed")
		return "", errorResult("fetch failed: " + fo.Reason)
	case Rendered:
		metrics.RecordFetch("rendered")
		if ctx.Err() != nil {
			return "", errorResult(ReasonAborted)
		}
		o.emit(notify, requestID, locator, progress.CheckpointExtracting)
		start := time.Now()
		extraction := o.extractor.Extract(ctx, fo.Markup)
		metrics.ObserveStage("extract", time.Since(start))

		switch eo := extraction.(type) {
		case Extracted:
			return eo.Text, Result{}
		case ExtractFailed:
			if eo.Diagnostic != "" {
				log.Warn("extraction failed", zap.String("reason", eo.Reason), zap.String("diagnostic", eo.Diagnostic))
			}
			return "", errorResult("extraction failed: " + eo.Reason)
		default:
			return "", errorResult("extraction failed: unknown outcome")
		}
	default:
		return "", errorResult("fetch failed: unknown outcome")
	}
}

func (o *Orchestrator) applyDecision(ctx context.Context, req Request, locator, content string, log *zap.Logger, notify progress.Notifier) Result {
	if ctx.Err() != nil {
		return errorResult(ReasonAborted)
	}

	decision := Decide(req.Instruction != "", len(content), o.answerer.Available())
	metrics.RecordDecision(string(decision.Kind))
	log.Debug("decision", zap.String("kind", string(decision.Kind)), zap.Int("content_length", len(content)))

	switch decision.Kind {
	case DecisionReturnRaw:
		if len(content) <= RawReturnThreshold {
			return Result{Content: content}
		}
		// Oversized with no answerer: truncated raw, no failure note.
		return Result{Content: fallbackRaw(content, "")}
	case DecisionAnswerPrompt:
		return o.runAnswerer(ctx, req, locator, content, req.Instruction+"\n\n"+answerGuardrails, notify)
	case DecisionSummarize:
		return o.runAnswerer(ctx, req, locator, content, summarizeInstruction, notify)
	case DecisionFallbackRaw:
		return Result{Content: fallbackRaw(content, decision.Note)}
	default:
		return errorResult("unknown decision " + string(decision.Kind))
	}
}

func (o *Orchestrator) runAnswerer(ctx context.Context, req Request, locator, content, instruction string, notify progress.Notifier) Result {
	o.emit(notify, req.RequestID, locator, progress.CheckpointAnswering)
	start := time.Now()
	outcome := o.answerer.Answer(ctx, content, instruction)
	metrics.ObserveStage("answer", time.Since(start))

	switch ao := outcome.(type) {
	case Answered:
		return Result{Content: ao.Text}
	case AnswerFailed:
		if ctx.Err() != nil || ao.Reason == ReasonAborted {
			return errorResult(ReasonAborted)
		}
		// Answerer failures degrade gracefully: the caller still gets the
		// already-extracted text.
		return Result{Content: fallbackRaw(content, "answerer failed: "+ao.Reason)}
	default:
		return Result{Content: fallbackRaw(content, "answerer failed: unknown outcome")}
	}
}

func (o *Orchestrator) emit(notify progress.Notifier, requestID, locator string, cp progress.Checkpoint) {
	notify.Notify(progress.Event{
		RequestID:  requestID,
		Checkpoint: cp,
		Locator:    locator,
		TS:         time.Now().UTC(),
	})
}

// fallbackRaw truncates content to the head-preserving budget and appends
// the truncation report plus an optional note naming the degradation.
func fallbackRaw(content, note string) string {
	t := Truncate(content)
	var b strings.Builder
	b.WriteString(strings.TrimRight(t.Text, "\n"))
	if rep := t.Report(); rep != "" {
		b.WriteString("\n\n")
		b.WriteString(rep)
	}
	if note != "" {
		b.WriteString("\n[")
		b.WriteString(note)
		b.WriteString("]")
	}
	return b.String()
}

func errorResult(msg string) Result {
	return Result{Content: msg, IsError: true}
}
