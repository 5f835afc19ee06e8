package browser

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// FetchRequest is an HTTP call issued from inside the page, so it shares the
// page's origin, cookies and session state.
type FetchRequest struct {
	Method string
	URL    string
	Header map[string]string
	Form   url.Values
	JSON   any
}

// Fetch runs r through window.fetch and returns the response text.
// Non-2xx statuses fail the evaluation.
func Fetch(s Session, r FetchRequest) (string, error) {
	expr, err := fetchExpression(r)
	if err != nil {
		return "", err
	}
	var text string
	if err := s.Evaluate(expr, &text); err != nil {
		return "", err
	}
	return text, nil
}

func fetchExpression(r FetchRequest) (string, error) {
	method := r.Method
	if method == "" {
		method = "GET"
	}
	header := make(map[string]string, len(r.Header)+1)
	for k, v := range r.Header {
		header[k] = v
	}

	var body *string
	switch {
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return "", fmt.Errorf("encode fetch body: %w", err)
		}
		s := string(data)
		body = &s
		header["Content-Type"] = "application/json"
	case r.Form != nil:
		s := r.Form.Encode()
		body = &s
		header["Content-Type"] = "application/x-www-form-urlencoded"
	}

	init := map[string]any{
		"method":      method,
		"headers":     header,
		"credentials": "include",
	}
	if body != nil {
		init["body"] = *body
	}

	target, err := json.Marshal(r.URL)
	if err != nil {
		return "", err
	}
	opts, err := json.Marshal(init)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`(async () => {
  const r = await fetch(%s, %s);
  if (!r.ok) { throw new Error("status " + r.status); }
  return await r.text();
})()`, target, opts), nil
}
