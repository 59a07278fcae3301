package fetcher

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() Options {
	return Options{
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
		Timeout:    2 * time.Second,
	}
}

func TestFetchSuccess(t *testing.T) {
	var gotUA, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("k")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f := New(fastOptions(), slog.Default())

	body, err := f.Fetch(context.Background(), server.URL, map[string]string{"k": "polo shirt"})
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, mobileUserAgent, gotUA)
	assert.Equal(t, "polo shirt", gotQuery)
}

func TestFetchRotatesUserAgentAfterForbidden(t *testing.T) {
	var userAgents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.Header.Get("User-Agent"))
		if len(userAgents) <= 2 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer server.Close()

	f := New(fastOptions(), slog.Default())

	body, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "finally", string(body))

	// Baseline on the first attempt, fallback afterward: exactly one
	// mutation, after the first 403.
	require.Len(t, userAgents, 3)
	assert.Equal(t, mobileUserAgent, userAgents[0])
	assert.Equal(t, fallbackUserAgent, userAgents[1])
	assert.Equal(t, fallbackUserAgent, userAgents[2])
}

func TestFetchExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New(fastOptions(), slog.Default())

	body, err := f.Fetch(context.Background(), server.URL, nil)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, attempts)
}

func TestFetchNetworkErrorDegrades(t *testing.T) {
	f := New(fastOptions(), slog.Default())

	// Nothing listens here.
	body, err := f.Fetch(context.Background(), "http://127.0.0.1:1", nil)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestFetchHeaderStateIsPerCall(t *testing.T) {
	var userAgents []string
	forbidden := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.Header.Get("User-Agent"))
		if forbidden {
			forbidden = false
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := New(fastOptions(), slog.Default())

	_, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)

	// A fresh call starts from the baseline headers again.
	_, err = f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)

	require.Len(t, userAgents, 3)
	assert.Equal(t, mobileUserAgent, userAgents[0])
	assert.Equal(t, fallbackUserAgent, userAgents[1])
	assert.Equal(t, mobileUserAgent, userAgents[2])
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(fastOptions(), slog.Default())
	_, err := f.Fetch(ctx, server.URL, nil)
	assert.Error(t, err)
}
