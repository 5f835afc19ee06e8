package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"slot-aggregator/core/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("a"))
		assert.Equal(t, "2", r.URL.Query().Get("b"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient(time.Second, "test-agent", http.Header{"Authorization": {"Bearer default"}})
	resp, err := c.Do(context.Background(), Request{
		URL:    srv.URL + "/x?a=1",
		Query:  url.Values{"b": {"2"}},
		Header: http.Header{"Authorization": {"Bearer t"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	var body struct{ OK bool }
	require.NoError(t, resp.DecodeJSON(&body))
	assert.True(t, body.OK)
}

func TestClient_DoPostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2026-03-10", r.PostForm.Get("datum"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(time.Second, "", nil)
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Form:   url.Values{"datum": {"2026-03-10"}},
	})
	require.NoError(t, err)
}

func TestClient_DoStatusIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := NewClient(time.Second, "", nil).Do(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrTransient))
	assert.Equal(t, http.StatusBadGateway, resp.Status)
}

func TestClient_DoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewClient(time.Second, "", nil).Do(context.Background(), Request{URL: srv.URL, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, "transient", provider.Kind(err))
}

func TestResponse_DecodeJSONParseError(t *testing.T) {
	err := (&Response{Body: []byte("<html>")}).DecodeJSON(&map[string]any{})
	assert.True(t, errors.Is(err, provider.ErrParse))
}
