package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slot-aggregator/core/provider"
)

// maxBody bounds how much of an upstream response is read.
const maxBody = 16 << 20

// Doer executes upstream requests. Adapters depend on this instead of *Client.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Request describes one upstream call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	// Body is sent as is. JSON and Form take precedence when set.
	Body []byte
	// JSON is encoded as the request body with a JSON content type.
	JSON any
	// Form is encoded as application/x-www-form-urlencoded.
	Form url.Values
	// Timeout overrides the client default for this call.
	Timeout time.Duration
}

// Response is a fully read upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// DecodeJSON unmarshals the body into v. Failures are parse errors.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return provider.Parsef("decode response: %v", err)
	}
	return nil
}

// Client is the shared HTTP capability handed to adapters.
type Client struct {
	http      *http.Client
	userAgent string
	header    http.Header
	timeout   time.Duration
}

// NewClient creates a client with a tuned transport and default per-call timeout.
func NewClient(timeout time.Duration, userAgent string, header http.Header) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Client{
		http:      &http.Client{Transport: transport},
		userAgent: userAgent,
		header:    header,
		timeout:   timeout,
	}
}

// Do performs the request. Network failures and non-2xx statuses are transient errors.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	timeout := c.timeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.build(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, provider.Transientf("%s %s: timeout after %s", req.Method, r.URL, timeout)
		}
		return nil, provider.Transientf("%s %s: %v", req.Method, r.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, provider.Transientf("%s %s: read body: %v", req.Method, r.URL, err)
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, provider.Transientf("%s %s: status %d", req.Method, r.URL, resp.StatusCode)
	}
	return out, nil
}

func (c *Client) build(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := url.Parse(r.URL)
	if err != nil {
		return nil, provider.Configf("invalid url %q: %v", r.URL, err)
	}
	if len(r.Query) > 0 {
		q := target.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, provider.Configf("build request: %v", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}
