package browser

import "time"

// Config holds configuration for browser sessions.
type Config struct {
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches a local one.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root).
	NoSandbox bool
	// UserAgent overrides the browser user agent when set.
	UserAgent string
	// Timeout bounds a whole session.
	Timeout time.Duration
}
