// Package browser is the interactive-session capability used by adapters whose
// upstream only reveals availability inside a rendered page.
//
// Chrome opens one chromedp-backed browser per session, locally or against a remote
// DevTools endpoint. Session exposes the handful of operations adapters need: navigate,
// wait for an element, click, evaluate JavaScript and capture an outgoing request header.
// Fetch issues an HTTP call from inside the page, sharing its cookies.
//
// Do guarantees the session is closed on every exit path, including errors and panics
// in the callback.
//
//	err := browser.Do(ctx, launcher, func(s browser.Session) error {
//	    if err := s.Navigate(url); err != nil {
//	        return err
//	    }
//	    return s.Evaluate(`document.title`, &title)
//	})
//
// The browsertest subpackage provides a scripted fake for adapter tests.
package browser
