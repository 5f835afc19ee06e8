package scrape

import (
	"fmt"
	"net/http"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/httpx"

	"go.uber.org/zap"
)

// Config holds defaults shared by every adapter.
type Config struct {
	// MaxSlots caps the slots kept per entity. Zero or less disables the cap.
	MaxSlots int `mapstructure:"max_slots" default:"50"`
	// Timezone interprets naive upstream timestamps.
	Timezone string `mapstructure:"timezone" default:"Europe/Vienna"`
	// UserAgent is sent on every upstream request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"`
	// HTTPTimeoutSeconds bounds one upstream request.
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds" default:"30"`
	// LeadMinutes is the minimum distance between now and a computed slot.
	LeadMinutes int `mapstructure:"lead_minutes" default:"0"`
	// BrowserRemoteURL points at a running Chrome DevTools endpoint. Empty launches Chrome locally.
	BrowserRemoteURL string `mapstructure:"browser_remote_url" default:""`
	// BrowserNoSandbox disables the Chrome sandbox (containers running as root).
	BrowserNoSandbox bool `mapstructure:"browser_no_sandbox" default:"false"`
	// BrowserTimeoutSeconds bounds one browser session.
	BrowserTimeoutSeconds int `mapstructure:"browser_timeout_seconds" default:"120"`
	// Schedule is the cron expression of the schedule command.
	Schedule string `mapstructure:"schedule" default:"0 * * * *"`
	// CacheTTLSeconds is how long the HTTP API reuses a consolidated view.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	name := c.Timezone
	if name == "" {
		name = "Europe/Vienna"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// NewOptions builds the adapter defaults from configuration, wiring the shared
// HTTP client and a Chrome launcher.
func NewOptions(cfg Config, logger *zap.Logger) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	header := http.Header{"Accept-Language": {"de-AT,de;q=0.9,en;q=0.8"}}

	return Options{
		UserAgent:   cfg.UserAgent,
		HTTPTimeout: timeout,
		Location:    loc,
		LeadTime:    time.Duration(cfg.LeadMinutes) * time.Minute,
		HTTP:        httpx.NewClient(timeout, cfg.UserAgent, header),
		Browser: browser.NewChrome(browser.Config{
			RemoteURL: cfg.BrowserRemoteURL,
			NoSandbox: cfg.BrowserNoSandbox,
			UserAgent: cfg.UserAgent,
			Timeout:   time.Duration(cfg.BrowserTimeoutSeconds) * time.Second,
		}, logger),
		Logger: logger,
	}, nil
}
