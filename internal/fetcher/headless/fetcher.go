// Package headless drives the rendering engine via chromedp and classifies
// navigation results.
package headless

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/digest"
)

// DefaultNavigationTimeout bounds a single navigation attempt.
const DefaultNavigationTimeout = 30 * time.Second

// Config controls the behavior of the headless fetcher.
type Config struct {
	// BrowserPath overrides which browser binary is launched. Empty means
	// chromedp's default lookup.
	BrowserPath       string
	UserAgent         string
	NavigationTimeout time.Duration
}

// Fetcher implements digest.Fetcher using chromedp and headless Chrome.
// Each Fetch call launches its own browser instance from the shared
// allocator, so concurrent invocations own independent process trees.
type Fetcher struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BrowserPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}
}

// Close cancels the allocator context.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Fetch navigates to locator with a headless browser and returns the
// classified outcome. The browser instance is torn down on every exit path;
// cancellation of ctx aborts the navigation and yields an "aborted" failure
// rather than a partial result.
func (f *Fetcher) Fetch(ctx context.Context, locator string) digest.FetchOutcome {
	taskCtx, taskCancel := chromedp.NewContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavigationTimeout)
	defer cancel()

	// Bridge the invocation's cancellation signal into the browser context.
	go func() {
		select {
		case <-ctx.Done():
			taskCancel()
		case <-taskCtx.Done():
		}
	}()

	watch := newRedirectWatch(locator, cancel)
	chromedp.ListenTarget(taskCtx, watch.observe)

	var (
		markup   string
		finalLoc string
	)
	actions := []chromedp.Action{
		f.networkSetupAction(),
		chromedp.Navigate(locator),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalLoc),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	}
	err := chromedp.Run(taskCtx, actions...)

	// A recorded cross-host target wins over whatever error the deliberate
	// navigation abort produced.
	if target := watch.target(); target != "" {
		f.logger.Debug("cross-host redirect detected",
			zap.String("locator", locator),
			zap.String("target", target),
		)
		return digest.Redirected{TargetLocator: target}
	}
	if ctx.Err() != nil {
		return digest.FetchFailed{Reason: digest.ReasonAborted}
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return digest.FetchFailed{Reason: digest.ReasonTimeout}
		}
		return digest.FetchFailed{Reason: err.Error()}
	}
	if finalLoc == "" {
		finalLoc = locator
	}
	return digest.Rendered{Markup: markup, FinalLocator: finalLoc}
}

func (f *Fetcher) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if f.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(f.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

// redirectWatch observes top-level navigation responses and classifies
// redirects. Sub-resource responses (scripts, images, trackers) are ignored
// so they cannot produce false redirect signals.
type redirectWatch struct {
	mu       sync.Mutex
	current  string
	recorded string
	abort    context.CancelFunc
}

func newRedirectWatch(locator string, abort context.CancelFunc) *redirectWatch {
	return &redirectWatch{current: locator, abort: abort}
}

func (w *redirectWatch) observe(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	status := int(resp.Response.Status)
	if status < 300 || status >= 400 {
		return
	}
	location := headerValue(resp.Response.Headers, "Location")
	if location == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	target, cross, err := classifyRedirect(w.current, location)
	if err != nil {
		return
	}
	if !cross {
		// Same host: let the engine's built-in following continue, but
		// track the hop so chained redirects resolve correctly.
		w.current = target
		return
	}
	if w.recorded == "" {
		w.recorded = target
		w.abort()
	}
}

func (w *redirectWatch) target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recorded
}

// classifyRedirect resolves a Location header against the current locator
// and reports whether the target lives on a different host.
func classifyRedirect(current, location string) (target string, crossHost bool, err error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", false, fmt.Errorf("parse current locator: %w", err)
	}
	loc, err := url.Parse(location)
	if err != nil {
		return "", false, fmt.Errorf("parse location header: %w", err)
	}
	resolved := base.ResolveReference(loc)
	return resolved.String(), !strings.EqualFold(resolved.Hostname(), base.Hostname()), nil
}

func headerValue(headers network.Headers, name string) string {
	for key, value := range headers {
		if !strings.EqualFold(key, name) {
			continue
		}
		switch v := value.(type) {
		case string:
			return v
		case []string:
			if len(v) > 0 {
				return v[0]
			}
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
