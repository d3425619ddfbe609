package digest

import (
	"fmt"
	"strings"
)

// Truncation budgets for raw fallback output. The head of the content is
// preserved; whichever budget is exhausted first wins.
const (
	TruncateByteBudget = 25_000
	TruncateLineBudget = 500
)

// Truncated is the result of applying the head-preserving budget to a block
// of text.
type Truncated struct {
	Text     string
	CutBytes int
	CutLines int
}

// Cut reports whether any content was removed.
func (t Truncated) Cut() bool {
	return t.CutBytes > 0 || t.CutLines > 0
}

// Report renders the human-readable account of how much was removed. Empty
// when nothing was cut.
func (t Truncated) Report() string {
	if !t.Cut() {
		return ""
	}
	return fmt.Sprintf("[content truncated: %d bytes across %d lines removed]", t.CutBytes, t.CutLines)
}

// Truncate applies the byte and line budgets to content, keeping the head.
// The line budget is applied first, then the byte budget is enforced on what
// remains, backing up to the previous line boundary so no line is split.
func Truncate(content string) Truncated {
	kept := content
	cutLines := 0

	lines := strings.SplitAfter(kept, "\n")
	if len(lines) > TruncateLineBudget {
		cutLines = len(lines) - TruncateLineBudget
		kept = strings.Join(lines[:TruncateLineBudget], "")
	}

	if len(kept) > TruncateByteBudget {
		head := kept[:TruncateByteBudget]
		if idx := strings.LastIndexByte(head, '\n'); idx > 0 {
			head = head[:idx+1]
		}
		cutLines += strings.Count(kept[len(head):], "\n")
		kept = head
	}

	return Truncated{
		Text:     kept,
		CutBytes: len(content) - len(kept),
		CutLines: cutLines,
	}
}
