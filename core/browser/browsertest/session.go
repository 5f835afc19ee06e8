// Package browsertest provides a scripted browser.Session for adapter tests.
package browsertest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/provider"
)

// Session records calls and answers them from its fields.
type Session struct {
	mu sync.Mutex

	// Eval answers Evaluate. The returned value is JSON round-tripped into out.
	Eval func(expr string) (any, error)
	// Visible lists the selectors WaitVisible succeeds for. A nil map accepts every selector.
	Visible map[string]bool
	// Headers are the request headers CaptureHeader can observe.
	Headers map[string]string
	// NavigateErr fails every Navigate call.
	NavigateErr error

	Navigated []string
	Clicked   []string
	Evaluated []string
	Closed    bool
}

var _ browser.Session = (*Session)(nil)

func (s *Session) Navigate(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Navigated = append(s.Navigated, url)
	return s.NavigateErr
}

func (s *Session) WaitVisible(selector string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Visible == nil || s.Visible[selector] {
		return nil
	}
	return provider.Transientf("wait for %s: not visible", selector)
}

func (s *Session) Click(selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clicked = append(s.Clicked, selector)
	return nil
}

func (s *Session) Evaluate(expression string, out any) error {
	s.mu.Lock()
	s.Evaluated = append(s.Evaluated, expression)
	eval := s.Eval
	s.mu.Unlock()

	if eval == nil {
		return nil
	}
	v, err := eval(expression)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("browsertest: encode result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return provider.Parsef("decode evaluation result: %v", err)
	}
	return nil
}

func (s *Session) CaptureHeader(name string, minLen int) (browser.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.Headers {
		if strings.EqualFold(k, name) && len(v) > minLen {
			return capture(v), nil
		}
	}
	return capture(""), nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// EvaluatedContaining returns the evaluated expressions containing substr.
func (s *Session) EvaluatedContaining(substr string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.Evaluated {
		if strings.Contains(e, substr) {
			out = append(out, e)
		}
	}
	return out
}

type capture string

func (c capture) Wait(timeout time.Duration) (string, error) {
	if c == "" {
		return "", provider.Transientf("header not captured within %s", timeout)
	}
	return string(c), nil
}

// Launcher hands out Session, or fails with Err.
type Launcher struct {
	Session *Session
	Err     error

	mu     sync.Mutex
	Opened int
}

var _ browser.Launcher = (*Launcher)(nil)

func (l *Launcher) Open(context.Context) (browser.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	l.Opened++
	if l.Session == nil {
		l.Session = &Session{}
	}
	return l.Session, nil
}
