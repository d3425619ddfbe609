package answerer

import (
	"context"
	"strings"
	"testing"

	"github.com/JakeFAU/webdigest/internal/digest"
)

func TestAvailableMissingBinary(t *testing.T) {
	t.Parallel()

	r := New(Config{Command: "definitely-not-a-real-binary-0a1b2c"}, nil)
	if r.Available() {
		t.Fatal("expected missing binary to be unavailable")
	}
}

func TestAnswerMissingBinaryFails(t *testing.T) {
	t.Parallel()

	r := New(Config{Command: "definitely-not-a-real-binary-0a1b2c"}, nil)
	outcome := r.Answer(context.Background(), "content", "instruction")
	failed, ok := outcome.(digest.AnswerFailed)
	if !ok {
		t.Fatalf("expected AnswerFailed, got %T", outcome)
	}
	if !strings.Contains(failed.Reason, "launch answerer") {
		t.Fatalf("reason = %q", failed.Reason)
	}
}

func TestNewDefaultsCommand(t *testing.T) {
	t.Parallel()

	r := New(Config{}, nil)
	if r.cfg.Command != DefaultCommand {
		t.Fatalf("command = %q", r.cfg.Command)
	}
}
