package answerer

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonrepair"
)

// Event kinds and roles in the answering sub-process's stream protocol.
// The protocol is advisory: lines that fail to parse are skipped without
// aborting the stream.
const (
	eventKindMessageEnd = "message_end"
	roleAssistant       = "assistant"
)

type event struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// eventStream incrementally buffers the sub-process's stdout, splits it on
// newline boundaries, and parses each complete line independently. It
// implements io.Writer so it can be attached directly to the process handle.
type eventStream struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	last string
}

// Write consumes raw bytes from the sub-process; it never returns an error
// so output collection cannot kill the process early.
func (s *eventStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(p)
	for {
		line, err := s.buf.ReadString('\n')
		if err != nil {
			// Partial line: keep it buffered for the next write.
			s.buf.WriteString(line)
			break
		}
		s.consumeLine(line)
	}
	return len(p), nil
}

// flush parses any trailing line that arrived without a final newline.
func (s *eventStream) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf.Len() > 0 {
		s.consumeLine(s.buf.String())
		s.buf.Reset()
	}
}

// lastAnswer returns the text of the most recent assistant message_end
// event, or "" when none was seen.
func (s *eventStream) lastAnswer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *eventStream) consumeLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	evt, ok := parseEventLine(line)
	if !ok {
		return
	}
	if evt.Type != eventKindMessageEnd || evt.Role != roleAssistant {
		return
	}
	var parts []string
	for _, part := range evt.Content {
		if part.Type == "text" && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if text := strings.Join(parts, ""); text != "" {
		// Only the most recent assistant message_end is kept.
		s.last = text
	}
}

// parseEventLine decodes one protocol line, attempting a repair pass on
// malformed JSON before giving up.
func parseEventLine(line string) (event, bool) {
	var evt event
	if err := json.Unmarshal([]byte(line), &evt); err == nil {
		return evt, true
	}
	repaired, err := jsonrepair.JSONRepair(line)
	if err != nil {
		return event{}, false
	}
	if err := json.Unmarshal([]byte(repaired), &evt); err != nil {
		return event{}, false
	}
	return evt, true
}
