package kmeans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/run/model"
	"github.com/go-sod/kmeans/internal/util"
)

func testConfig() *Config {
	return &Config{
		RequestTimeout: 5 * time.Second,
		MaxFeatures:    100,
		MaxIterations:  500,
		MaxRuns:        10,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
		RunsLimit:      50,
	}
}

type fakeRecorder struct {
	mtx  sync.Mutex
	runs []model.Run
}

func (f *fakeRecorder) Record(_ context.Context, run model.Run) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.runs = append(f.runs, run)
}

func newTestHandler(t *testing.T, cfg *Config, recorder *fakeRecorder) *handler {
	t.Helper()
	var h http.Handler
	var err error
	if recorder == nil {
		h, err = NewHandler(cfg, cluster.New, nil)
	} else {
		h, err = NewHandler(cfg, cluster.New, recorder)
	}
	require.NoError(t, err)
	return h.(*handler)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/kmeans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestNewHandlerErr(t *testing.T) {
	_, err := NewHandler(nil, cluster.New, nil)
	assert.Error(t, err)
	_, err = NewHandler(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestHandlerTwoGroups(t *testing.T) {
	recorder := &fakeRecorder{}
	h := newTestHandler(t, testConfig(), recorder)

	rec := post(h, `{"features": [[0,0],[0,1],[10,0],[10,1]], "k": 2, "seed": 42, "runs": 5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	require.Len(t, resp.ClusterLabels, 4)
	assert.Equal(t, resp.ClusterLabels[0], resp.ClusterLabels[1])
	assert.Equal(t, resp.ClusterLabels[2], resp.ClusterLabels[3])
	assert.NotEqual(t, resp.ClusterLabels[0], resp.ClusterLabels[2])
	require.Len(t, resp.ClusterCenters, 2)
	assert.Equal(t, []float64{0, 0.5}, resp.ClusterCenters[resp.ClusterLabels[0]])
	assert.Equal(t, []float64{10, 0.5}, resp.ClusterCenters[resp.ClusterLabels[2]])
	assert.Equal(t, []int{2, 2}, resp.ClusterSizes)
	assert.InDelta(t, 1.0, resp.Inertia, 1e-12)
	assert.True(t, resp.Converged)
	assert.Equal(t, int64(42), resp.Seed)

	require.Len(t, recorder.runs, 1)
	got := recorder.runs[0]
	assert.Equal(t, resp.RunID, got.ID)
	assert.Equal(t, 2, got.K)
	assert.Equal(t, 4, got.Points)
	assert.Equal(t, 2, got.Dimensions)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, util.HashMatrix([][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}}), got.Fingerprint)
	assert.Equal(t, 5, got.Runs)
	assert.True(t, got.Converged)
}

func TestHandlerSeedIsReproducible(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)
	body := `{"features": [[1,2],[2,1],[8,9],[9,8],[5,5],[0,9]], "k": 3}`

	first := decodeResponse(t, post(h, body))
	replay := decodeResponse(t, post(h, strings.Replace(body, `"k": 3`, `"k": 3, "seed": `+jsonInt(first.Seed), 1)))

	assert.Equal(t, first.ClusterLabels, replay.ClusterLabels)
	assert.Equal(t, first.ClusterCenters, replay.ClusterCenters)
	assert.Equal(t, first.Seed, replay.Seed)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestHandlerStandardize(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	rec := post(h, `{"features": [[1,100],[3,100],[5,100]], "k": 1, "standardize": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.Len(t, resp.ClusterCenters, 1)
	// standardized columns have zero mean, the constant column maps to 0
	assert.InDelta(t, 0, resp.ClusterCenters[0][0], 1e-12)
	assert.InDelta(t, 0, resp.ClusterCenters[0][1], 1e-12)
	assert.Equal(t, []int{0, 0, 0}, resp.ClusterLabels)
}

func TestHandlerMaxIterationsCap(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	rec := post(h, `{"features": [[0],[1],[2],[10],[11],[30]], "k": 3, "seed": 1, "maxIterations": 1, "runs": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Equal(t, 1, resp.Iterations)
	assert.Len(t, resp.ClusterLabels, 6)
	for _, l := range resp.ClusterLabels {
		assert.True(t, l >= 0 && l < 3)
	}
}

func TestHandlerErr(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		contentType  string
		body         string
		expectedCode int
	}{
		{name: "err_method", method: http.MethodGet, contentType: "application/json", body: ``, expectedCode: http.StatusMethodNotAllowed},
		{name: "err_content_type", method: http.MethodPost, contentType: "text/plain", body: `{}`, expectedCode: http.StatusUnsupportedMediaType},
		{name: "err_empty_body", method: http.MethodPost, contentType: "application/json", body: ``, expectedCode: http.StatusBadRequest},
		{name: "err_malformed_json", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1]`, expectedCode: http.StatusBadRequest},
		{name: "err_unknown_field", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1]], "k": 1, "clusters": 2}`, expectedCode: http.StatusBadRequest},
		{name: "err_wrong_type", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1]], "k": "one"}`, expectedCode: http.StatusBadRequest},
		{name: "err_empty_features", method: http.MethodPost, contentType: "application/json", body: `{"features": [], "k": 1}`, expectedCode: http.StatusBadRequest},
		{name: "err_zero_k", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": 0}`, expectedCode: http.StatusBadRequest},
		{name: "err_negative_k", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": -1}`, expectedCode: http.StatusBadRequest},
		{name: "err_k_above_n", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": 3}`, expectedCode: http.StatusBadRequest},
		{name: "err_ragged", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1,2],[2]], "k": 1}`, expectedCode: http.StatusBadRequest},
		{name: "err_ragged_standardize", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1,2],[2]], "k": 1, "standardize": true}`, expectedCode: http.StatusBadRequest},
		{name: "err_zero_dimension", method: http.MethodPost, contentType: "application/json", body: `{"features": [[],[]], "k": 1}`, expectedCode: http.StatusBadRequest},
		{name: "err_max_iterations", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": 1, "maxIterations": 0}`, expectedCode: http.StatusBadRequest},
		{name: "err_max_iterations_bound", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": 1, "maxIterations": 501}`, expectedCode: http.StatusBadRequest},
		{name: "err_runs_bound", method: http.MethodPost, contentType: "application/json", body: `{"features": [[1],[2]], "k": 1, "runs": 11}`, expectedCode: http.StatusBadRequest},
		{name: "err_body_too_large", method: http.MethodPost, contentType: "application/json", body: `{"features": [` + strings.Repeat(`[1],`, 1<<18) + `[1]], "k": 1}`, expectedCode: http.StatusRequestEntityTooLarge},
	}
	h := newTestHandler(t, testConfig(), nil)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, "/api/kmeans", strings.NewReader(test.body))
			req.Header.Set("Content-Type", test.contentType)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, test.expectedCode, rec.Code, rec.Body.String())
			var errResp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp), rec.Body.String())
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestHandlerTooManyFeatures(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFeatures = 2
	h := newTestHandler(t, cfg, nil)

	rec := post(h, `{"features": [[1],[2],[3]], "k": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeout = 50 * time.Millisecond
	recorder := &fakeRecorder{}
	h := newTestHandler(t, cfg, recorder)

	release := make(chan struct{})
	defer close(release)
	h.cluster = func(km *cluster.KMeans, features [][]float64, k int) (*cluster.Result, error) {
		<-release
		return km.Cluster(features, k)
	}

	rec := post(h, `{"features": [[1],[2]], "k": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Empty(t, recorder.runs)
}

func TestHandlerInternalErr(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)
	h.cluster = func(*cluster.KMeans, [][]float64, int) (*cluster.Result, error) {
		return nil, errors.New("boom")
	}

	rec := post(h, `{"features": [[1],[2]], "k": 1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal error"}`, rec.Body.String())
}

func TestHandlerProviderErr(t *testing.T) {
	h, err := NewHandler(testConfig(), func(...cluster.Option) (*cluster.KMeans, error) {
		return nil, errors.New("no engine")
	}, nil)
	require.NoError(t, err)

	rec := post(h, `{"features": [[1],[2]], "k": 1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
