package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetJSON_DecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "stockpulse/1.0", r.Header.Get("User-Agent"))
		require.Equal(t, "secret", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"price": 12.5}`))
	}))
	defer srv.Close()

	c := New(5*time.Second, "")
	c.Headers = map[string]string{"X-Token": "secret"}

	var out struct {
		Price float64 `json:"price"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	require.Equal(t, 12.5, out.Price)
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out map[string]any
	err := New(5*time.Second, "").GetJSON(context.Background(), srv.URL, &out)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	require.Contains(t, se.Body, "rate limited")
}

func hangUp(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
}

func TestGetJSON_TransportErrorHidesQuery(t *testing.T) {
	srv := hangUp(t)
	defer srv.Close()

	var out map[string]any
	err := New(5*time.Second, "").GetJSON(context.Background(), srv.URL+"/v2/everything?apiKey=SECRET-KEY-123&qInTitle=Tesla", &out)

	require.Error(t, err)
	require.NotContains(t, err.Error(), "SECRET-KEY-123")
	require.NotContains(t, err.Error(), "qInTitle")
	require.Contains(t, err.Error(), "/v2/everything")
}

func TestGetJSON_CanceledKeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := New(5*time.Second, "").GetJSON(ctx, "http://127.0.0.1:1/query?apikey=SECRET", &out)

	require.ErrorIs(t, err, context.Canceled)
	require.NotContains(t, err.Error(), "SECRET")
}
