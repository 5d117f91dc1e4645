package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/server/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHealthz(t *testing.T) {
	m := metrics.New()

	code, body := get(t, NewRouter(m.Registry(), nil), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	failing := func(context.Context) error { return errors.New("db down") }
	code, body = get(t, NewRouter(m.Registry(), failing), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.JSONEq(t, `{"status":"unavailable","error":"db down"}`, body)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.Distill("ok")

	code, body := get(t, NewRouter(m.Registry(), nil), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `distillr_distills_total{result="ok"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	code, _ := get(t, NewRouter(metrics.New().Registry(), nil), "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServerRun_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler(), logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRun_BadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", http.NotFoundHandler(), logging.Nop())
	require.Error(t, s.Run(context.Background()))
}
