// Package extractor converts rendered markup into boilerplate-free text by
// driving the external extraction tool over stdin/stdout.
package extractor

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/digest"
	"github.com/JakeFAU/webdigest/internal/supervise"
)

// Defaults select markdown output with formatting preserved.
var (
	DefaultCommand = "trafilatura"
	DefaultArgs    = []string{"--output-format", "markdown", "--formatting"}
)

// Config controls which extraction tool is invoked.
type Config struct {
	Command string
	Args    []string
}

// Extractor implements digest.Extractor. When the configured tool binary is
// not installed it falls back to an in-process HTML-to-markdown conversion
// so extraction still produces usable text.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New constructs an Extractor.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
		cfg.Args = append([]string(nil), DefaultArgs...)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract writes markup to the extraction tool's stdin in full, closes the
// stream, and collects stdout until the process exits. Cancellation
// terminates the tool and discards any partial output.
func (e *Extractor) Extract(ctx context.Context, markup string) digest.ExtractionOutcome {
	handle, err := supervise.Spawn(e.cfg.Command, e.cfg.Args, supervise.WithStdin(markup))
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			e.logger.Warn("extraction tool not installed, using built-in conversion",
				zap.String("command", e.cfg.Command))
			return e.convertFallback(markup)
		}
		return digest.ExtractFailed{Reason: "launch extractor: " + err.Error()}
	}
	defer handle.Cancel()

	select {
	case <-ctx.Done():
		handle.Cancel()
		return digest.ExtractFailed{Reason: digest.ReasonAborted}
	case <-handle.Done():
	}

	return classify(handle.Err(), handle.Stdout(), handle.Stderr())
}

// classify maps the tool's exit state and streams onto an outcome: nonzero
// exit fails with the captured diagnostics, a clean exit with empty output
// fails as "no content extracted", anything else succeeds with the trimmed
// text.
func classify(waitErr error, stdout, stderr string) digest.ExtractionOutcome {
	if waitErr != nil {
		return digest.ExtractFailed{
			Reason:     "extractor exited: " + waitErr.Error(),
			Diagnostic: strings.TrimSpace(stderr),
		}
	}
	text := strings.TrimSpace(stdout)
	if text == "" {
		return digest.ExtractFailed{
			Reason:     digest.ReasonNoContent,
			Diagnostic: strings.TrimSpace(stderr),
		}
	}
	return digest.Extracted{Text: text}
}

func (e *Extractor) convertFallback(markup string) digest.ExtractionOutcome {
	text, err := htmltomarkdown.ConvertString(markup)
	if err != nil {
		return digest.ExtractFailed{Reason: "convert markup: " + err.Error()}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return digest.ExtractFailed{Reason: digest.ReasonNoContent}
	}
	return digest.Extracted{Text: text}
}
