package browser_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_ClosesOnEveryPath(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		l := &browsertest.Launcher{}
		err := browser.Do(context.Background(), l, func(s browser.Session) error {
			return s.Navigate("https://example.org")
		})
		require.NoError(t, err)
		assert.True(t, l.Session.Closed)
	})

	t.Run("Error", func(t *testing.T) {
		l := &browsertest.Launcher{}
		err := browser.Do(context.Background(), l, func(s browser.Session) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, l.Session.Closed)
	})

	t.Run("Panic", func(t *testing.T) {
		l := &browsertest.Launcher{}
		assert.Panics(t, func() {
			_ = browser.Do(context.Background(), l, func(s browser.Session) error {
				panic("boom")
			})
		})
		assert.True(t, l.Session.Closed)
	})

	t.Run("OpenFails", func(t *testing.T) {
		l := &browsertest.Launcher{Err: assert.AnError}
		called := false
		err := browser.Do(context.Background(), l, func(s browser.Session) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called)
	})

	t.Run("NoLauncher", func(t *testing.T) {
		err := browser.Do(context.Background(), nil, func(s browser.Session) error { return nil })
		assert.Error(t, err)
	})
}

func TestFetch(t *testing.T) {
	s := &browsertest.Session{
		Eval: func(expr string) (any, error) {
			if strings.Contains(expr, "get_termine.php") {
				return "<button>10:00</button>", nil
			}
			return nil, errors.New("unexpected")
		},
	}

	text, err := browser.Fetch(s, browser.FetchRequest{
		Method: "POST",
		URL:    "https://example.org/get_termine.php",
		Form:   url.Values{"datum": {"2026-03-10"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "<button>10:00</button>", text)

	expr := s.Evaluated[0]
	assert.Contains(t, expr, `"method":"POST"`)
	assert.Contains(t, expr, `application/x-www-form-urlencoded`)
	assert.Contains(t, expr, `datum=2026-03-10`)
}

func TestFetch_JSONBody(t *testing.T) {
	s := &browsertest.Session{Eval: func(string) (any, error) { return "[]", nil }}

	_, err := browser.Fetch(s, browser.FetchRequest{
		Method: "POST",
		URL:    "https://example.org/api",
		Header: map[string]string{"cgm-identity": "token"},
		JSON:   []any{1, "x"},
	})
	require.NoError(t, err)

	expr := s.Evaluated[0]
	body, _ := json.Marshal(`[1,"x"]`)
	assert.Contains(t, expr, string(body))
	assert.Contains(t, expr, `"cgm-identity":"token"`)
}
