// Package supervise wraps spawned external processes with buffered output
// capture and graceful-then-forceful termination.
package supervise

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// GracePeriod is how long Cancel waits after the termination signal before
// forcefully killing the process.
const GracePeriod = 5 * time.Second

type options struct {
	stdin  string
	stdout io.Writer
	grace  time.Duration
}

// Option configures Spawn.
type Option func(*options)

// WithStdin writes s to the process's standard input in full, then closes
// the stream.
func WithStdin(s string) Option {
	return func(o *options) { o.stdin = s }
}

// WithStdout redirects standard output to w instead of the internal buffer.
// Callers that stream output (e.g. event protocols) use this.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithGracePeriod overrides the termination grace period. Shorter values are
// only intended for tests.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) { o.grace = d }
}

// Handle owns one spawned process. Every call site must invoke Cancel on
// every exit path; once Cancel returns, no process is left running beyond
// the grace period.
type Handle struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	grace  time.Duration

	doneCh  chan struct{}
	waitErr error

	cancelOnce sync.Once
}

// Spawn starts command with args and begins collecting its output. It
// returns an error only when the process cannot be started at all.
func Spawn(command string, args []string, opts ...Option) (*Handle, error) {
	o := options{grace: GracePeriod}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Handle{
		grace:  o.grace,
		doneCh: make(chan struct{}),
	}
	cmd := exec.Command(command, args...)
	if o.stdin != "" {
		cmd.Stdin = strings.NewReader(o.stdin)
	}
	if o.stdout != nil {
		cmd.Stdout = o.stdout
	} else {
		cmd.Stdout = &h.stdout
	}
	cmd.Stderr = &h.stderr
	h.cmd = cmd

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	go func() {
		h.waitErr = cmd.Wait()
		close(h.doneCh)
	}()
	return h, nil
}

// Done is closed once the process has exited and its output is complete.
func (h *Handle) Done() <-chan struct{} {
	return h.doneCh
}

// Err returns the wait error after Done is closed. A nonzero exit status
// surfaces here as an *exec.ExitError.
func (h *Handle) Err() error {
	select {
	case <-h.doneCh:
		return h.waitErr
	default:
		return nil
	}
}

// Stdout returns the buffered standard output collected so far. Empty when
// the handle was spawned with WithStdout.
func (h *Handle) Stdout() string {
	return h.stdout.String()
}

// Stderr returns the buffered diagnostic output collected so far.
func (h *Handle) Stderr() string {
	return h.stderr.String()
}

// Cancel sends the graceful termination signal immediately and, if the
// process has not exited within the grace period, kills it. Safe to call
// multiple times and after exit.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		select {
		case <-h.doneCh:
			return
		default:
		}
		if h.cmd.Process == nil {
			return
		}
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
		go func() {
			select {
			case <-h.doneCh:
			case <-time.After(h.grace):
				_ = h.cmd.Process.Kill()
			}
		}()
	})
}
