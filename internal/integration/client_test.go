package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/kmeans"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &kmeans.Config{
		RequestTimeout: 5 * time.Second,
		MaxFeatures:    100,
		MaxIterations:  300,
		MaxRuns:        5,
		MaxBodyBytes:   1 << 20,
		RunsLimit:      10,
	}
	h, err := kmeans.NewHandler(cfg, cluster.New, nil)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/api/kmeans", h)
	mux.Handle("/api/runs", kmeans.NewRunsHandler(cfg, nil))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		user, password, basic := r.BasicAuth()
		if r.Header.Get("Authorization") != "Bearer secret" && !(basic && user == "admin" && password == "secret") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientKMeans(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, httputil.HTTPClientConfig{})
	require.NoError(t, err)

	seed := int64(7)
	resp, err := c.KMeans(context.Background(), kmeans.Request{
		Features: [][]float64{{1}, {2}, {3}},
		K:        1,
		Seed:     &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, resp.ClusterLabels)
	assert.Equal(t, [][]float64{{2}}, resp.ClusterCenters)
	assert.Equal(t, int64(7), resp.Seed)
}

func TestClientKMeansErr(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.Listener.Addr().String(), httputil.HTTPClientConfig{})
	require.NoError(t, err)

	_, err = c.KMeans(context.Background(), kmeans.Request{Features: [][]float64{{1}}, K: 2})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "%v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "k (2)")
}

func TestClientRunsDisabled(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, httputil.HTTPClientConfig{})
	require.NoError(t, err)

	_, err = c.Runs(context.Background(), 5)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "%v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClientHealth(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name        string
		cfg         httputil.HTTPClientConfig
		expectedErr bool
	}{
		{name: "positive_bearer", cfg: httputil.HTTPClientConfig{BearerToken: "secret"}},
		{name: "positive_basic", cfg: httputil.HTTPClientConfig{BasicAuth: &httputil.BasicAuth{Username: "admin", Password: "secret"}}},
		{name: "err_basic_wrong_password", cfg: httputil.HTTPClientConfig{BasicAuth: &httputil.BasicAuth{Username: "admin", Password: "guess"}}, expectedErr: true},
		{name: "err_no_auth", cfg: httputil.HTTPClientConfig{}, expectedErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, err := NewClient(srv.URL, test.cfg)
			require.NoError(t, err)
			err = c.Health(context.Background())
			assert.Equal(t, test.expectedErr, err != nil, "%v", err)
		})
	}
}

func TestNewClientErr(t *testing.T) {
	_, err := NewClient("localhost:1", httputil.HTTPClientConfig{
		BearerToken: "t",
		BasicAuth:   &httputil.BasicAuth{Username: "u"},
	})
	assert.Error(t, err)
}
