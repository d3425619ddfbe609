// Package answerer drives the answering sub-process and parses its
// newline-delimited event protocol.
package answerer

import (
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/digest"
	"github.com/JakeFAU/webdigest/internal/supervise"
)

// DefaultCommand is the answering sub-process binary looked up on PATH.
const DefaultCommand = "claude"

// Config controls how the answering sub-process is invoked.
type Config struct {
	Command       string
	Model         string
	ThinkingLevel string
}

// Runner implements digest.Answerer by spawning the answering sub-process
// in a session-less, tool-less structured output mode.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// New constructs a Runner.
func New(cfg Config, logger *zap.Logger) *Runner {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Available reports whether the answering binary resolves on PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.cfg.Command)
	return err == nil
}

// Answer composes content and instruction into one prompt and runs the
// sub-process, keeping only the most recent assistant message_end event's
// text. A nonzero exit with salvageable text still resolves as Answered.
func (r *Runner) Answer(ctx context.Context, content, instruction string) digest.AnswerOutcome {
	args := []string{"-p", "--output-format", "stream-json", "--no-session", "--disallowed-tools", "*"}
	if r.cfg.Model != "" {
		args = append(args, "--model", r.cfg.Model)
	}
	if r.cfg.ThinkingLevel != "" {
		args = append(args, "--thinking", r.cfg.ThinkingLevel)
	}
	args = append(args, content+"\n\n"+instruction)

	stream := &eventStream{}
	handle, err := supervise.Spawn(r.cfg.Command, args, supervise.WithStdout(stream))
	if err != nil {
		return digest.AnswerFailed{Reason: "launch answerer: " + err.Error()}
	}
	defer handle.Cancel()

	select {
	case <-ctx.Done():
		handle.Cancel()
		return digest.AnswerFailed{Reason: digest.ReasonAborted}
	case <-handle.Done():
	}
	stream.flush()

	if text := stream.lastAnswer(); text != "" {
		if handle.Err() != nil {
			r.logger.Warn("answerer exited nonzero but produced text",
				zap.Error(handle.Err()))
		}
		return digest.Answered{Text: text}
	}
	if waitErr := handle.Err(); waitErr != nil {
		return digest.AnswerFailed{
			Reason:     "answerer exited: " + waitErr.Error(),
			Diagnostic: strings.TrimSpace(handle.Stderr()),
		}
	}
	return digest.AnswerFailed{Reason: digest.ReasonNoResponse}
}
