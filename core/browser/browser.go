package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"slot-aggregator/core/provider"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultSessionTimeout = 2 * time.Minute

// Session is one browser tab driven by an adapter.
// It is bound to the context it was opened with.
type Session interface {
	// Navigate loads url and waits for the page load event.
	Navigate(url string) error
	// WaitVisible blocks until selector is visible or timeout elapses.
	WaitVisible(selector string, timeout time.Duration) error
	// Click clicks the first element matching selector.
	Click(selector string) error
	// Evaluate runs a JavaScript expression, awaiting promises, and decodes the result into out.
	Evaluate(expression string, out any) error
	// CaptureHeader records the first outgoing request header called name with
	// a value longer than minLen. It must be called before the request is made.
	CaptureHeader(name string, minLen int) (Capture, error)
	// Close tears down the tab and its browser.
	Close() error
}

// Capture yields a header value recorded by CaptureHeader.
type Capture interface {
	Wait(timeout time.Duration) (string, error)
}

// Launcher opens sessions.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// Do opens a session, runs fn and always closes the session, whatever fn returns.
func Do(ctx context.Context, l Launcher, fn func(Session) error) (err error) {
	if l == nil {
		return provider.Configf("no browser launcher configured")
	}
	s, err := l.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Chrome launches chromedp-backed sessions.
type Chrome struct {
	cfg    Config
	logger *zap.Logger
}

// NewChrome creates a launcher for local or remote Chrome instances.
func NewChrome(cfg Config, logger *zap.Logger) *Chrome {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSessionTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chrome{cfg: cfg, logger: logger}
}

// Open starts a browser and a tab for one adapter run.
func (c *Chrome) Open(ctx context.Context) (Session, error) {
	ctx, cancelTimeout := context.WithTimeout(ctx, c.cfg.Timeout)

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if c.cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, c.cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	cancel := func() {
		tabCancel()
		allocCancel()
		cancelTimeout()
	}

	// The first Run starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, provider.Transientf("start browser: %v", err)
	}

	return &chromeSession{ctx: tabCtx, cancel: cancel}, nil
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
	)
	if c.cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.cfg.UserAgent))
	}
	return opts
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (s *chromeSession) run(what string, actions ...chromedp.Action) error {
	if err := chromedp.Run(s.ctx, actions...); err != nil {
		if errors.Is(s.ctx.Err(), context.DeadlineExceeded) {
			return provider.Transientf("%s: session timed out", what)
		}
		return provider.Transientf("%s: %v", what, err)
	}
	return nil
}

func (s *chromeSession) Navigate(url string) error {
	return s.run("navigate "+url, chromedp.Navigate(url))
}

func (s *chromeSession) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return provider.Transientf("wait for %s: %v", selector, err)
	}
	return nil
}

func (s *chromeSession) Click(selector string) error {
	return s.run("click "+selector, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *chromeSession) Evaluate(expression string, out any) error {
	var raw json.RawMessage
	err := s.run("evaluate", chromedp.Evaluate(expression, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return provider.Parsef("decode evaluation result: %v", err)
	}
	return nil
}

func (s *chromeSession) CaptureHeader(name string, minLen int) (Capture, error) {
	c := &headerCapture{found: make(chan string, 1)}
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		for k, v := range e.Request.Headers {
			if !strings.EqualFold(k, name) {
				continue
			}
			if str, ok := v.(string); ok && len(str) > minLen {
				c.offer(str)
			}
		}
	})
	if err := s.run("enable network", network.Enable()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *chromeSession) Close() error {
	s.once.Do(s.cancel)
	return nil
}

type headerCapture struct {
	found chan string
}

func (c *headerCapture) offer(v string) {
	select {
	case c.found <- v:
	default:
	}
}

func (c *headerCapture) Wait(timeout time.Duration) (string, error) {
	select {
	case v := <-c.found:
		return v, nil
	case <-time.After(timeout):
		return "", provider.Transientf("header not captured within %s", timeout)
	}
}
