package progress

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	valid := Event{RequestID: "r1", Checkpoint: CheckpointFetching, TS: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if err := (Event{Checkpoint: CheckpointFetching}).Validate(); err == nil {
		t.Fatal("expected error for missing request id")
	}
	if err := (Event{RequestID: "r1", Checkpoint: "rewinding"}).Validate(); err == nil {
		t.Fatal("expected error for unknown checkpoint")
	}
}

func TestFuncNotifier(t *testing.T) {
	t.Parallel()

	var got []Checkpoint
	n := Func(func(evt Event) {
		got = append(got, evt.Checkpoint)
	})
	n.Notify(Event{RequestID: "r1", Checkpoint: CheckpointExtracting})
	if len(got) != 1 || got[0] != CheckpointExtracting {
		t.Fatalf("events = %v", got)
	}

	// A nil Func discards events without panicking.
	Func(nil).Notify(Event{RequestID: "r1", Checkpoint: CheckpointFetching})
}

func TestLogNotifierNilLogger(t *testing.T) {
	t.Parallel()

	n := NewLogNotifier(nil)
	n.Notify(Event{RequestID: "r1", Checkpoint: CheckpointProcessing})

	n = NewLogNotifier(zap.NewNop())
	n.Notify(Event{RequestID: "r1", Checkpoint: CheckpointAnswering})
}
