package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string, timeout time.Duration) *Client {
	return NewClient(url, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchObservations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pda", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, dashboardPage)
	}))
	defer srv.Close()

	obs, err := testClient(srv.URL+"/pda", 5*time.Second).FetchObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.Equal(t, "PDA Genteng", obs[0].RawName)
}

func TestClient_FetchObservations_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).FetchObservations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_FetchObservations_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, dashboardPage)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).FetchObservations(context.Background())
	require.Error(t, err)
}
