// Package kmeans serves the clustering HTTP API.
package kmeans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastrand"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/logging"
	"github.com/go-sod/kmeans/internal/metrics"
	"github.com/go-sod/kmeans/internal/run"
	"github.com/go-sod/kmeans/internal/run/model"
	"github.com/go-sod/kmeans/internal/scale"
	"github.com/go-sod/kmeans/internal/util"
)

type clusterFn func(km *cluster.KMeans, features [][]float64, k int) (*cluster.Result, error)

// NewHandler returns the POST /api/kmeans handler. recorder may be nil when
// run history is disabled.
func NewHandler(cfg *Config, provide cluster.ProvideFn, recorder run.Recorder) (http.Handler, error) {
	if cfg == nil {
		return nil, errors.New("kmeans handler requires a config")
	}
	if provide == nil {
		return nil, errors.New("kmeans handler requires a cluster provider")
	}
	return &handler{
		cfg:      cfg,
		provide:  provide,
		recorder: recorder,
		cluster: func(km *cluster.KMeans, features [][]float64, k int) (*cluster.Result, error) {
			return km.Cluster(features, k)
		},
		now: time.Now,
	}, nil
}

type handler struct {
	cfg      *Config
	provide  cluster.ProvideFn
	recorder run.Recorder
	cluster  clusterFn
	now      func() time.Time
}

type outcome struct {
	res *cluster.Result
	err error
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != http.MethodPost {
		httputil.RespError(ctx, w, http.StatusMethodNotAllowed, "method %v is not allowed", r.Method)
		return
	}
	if !httputil.IsJSON(r) {
		httputil.RespError(ctx, w, http.StatusUnsupportedMediaType, "content-type is not application/json")
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	start := h.now()
	opts, seed, err := h.options(&req)
	if err != nil {
		metrics.RecordRun(ctx, metrics.OutcomeInvalid, len(req.Features), 0, h.now().Sub(start))
		httputil.RespBadRequest(ctx, w, "%v", err)
		return
	}

	features := req.Features
	if req.Standardize {
		// ragged rows must be rejected before the columns are scanned
		if _, err := cluster.NewDataset(features); err != nil {
			metrics.RecordRun(ctx, metrics.OutcomeInvalid, len(req.Features), 0, h.now().Sub(start))
			httputil.RespBadRequest(ctx, w, "%v", err)
			return
		}
		features, _ = scale.Standardize(features)
	}

	km, err := h.provide(opts...)
	if err != nil {
		metrics.RecordRun(ctx, metrics.OutcomeInternal, len(req.Features), 0, h.now().Sub(start))
		httputil.RespInternalError(ctx, w, "unable create clusterer: %v", err)
		return
	}

	// the engine has no cancellation point, so a timed out run finishes in the
	// background and its result is dropped
	done := make(chan outcome, 1)
	go func() {
		res, err := h.cluster(km, features, req.K)
		done <- outcome{res: res, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		metrics.RecordRun(ctx, metrics.OutcomeTimeout, len(req.Features), 0, h.now().Sub(start))
		httputil.RespError(ctx, w, http.StatusServiceUnavailable, "clustering did not finish within %v", h.cfg.RequestTimeout)
		return
	}
	elapsed := h.now().Sub(start)

	if out.err != nil {
		if errors.Is(out.err, cluster.ErrInvalidInput) {
			metrics.RecordRun(ctx, metrics.OutcomeInvalid, len(req.Features), 0, elapsed)
			httputil.RespBadRequest(ctx, w, "%v", out.err)
			return
		}
		metrics.RecordRun(ctx, metrics.OutcomeInternal, len(req.Features), 0, elapsed)
		httputil.RespInternalError(ctx, w, "clustering failed: %v", out.err)
		return
	}

	res := out.res
	metrics.RecordRun(ctx, metrics.OutcomeOK, len(req.Features), res.Iterations, elapsed)
	logger.Debugf("clustered %d points into %d clusters in %d iterations, converged: %v",
		len(req.Features), req.K, res.Iterations, res.Converged)

	id := uuid.New()
	if h.recorder != nil {
		rec := model.NewRun(id, req.K, len(req.Features), len(req.Features[0]), start)
		rec.Fingerprint = util.HashMatrix(req.Features)
		rec.Seed = seed
		rec.Runs = km.Runs()
		rec.Standardized = req.Standardize
		rec.Iterations = res.Iterations
		rec.Converged = res.Converged
		rec.Inertia = res.Inertia
		rec.Duration = elapsed
		h.recorder.Record(ctx, rec)
	}

	centers := make([][]float64, len(res.Centers))
	for i, c := range res.Centers {
		centers[i] = c.Points()
	}
	httputil.RespJSON(ctx, w, http.StatusOK, Response{
		RunID:          id,
		ClusterLabels:  res.Labels,
		ClusterCenters: centers,
		ClusterSizes:   res.Sizes,
		Inertia:        res.Inertia,
		Iterations:     res.Iterations,
		Converged:      res.Converged,
		Seed:           seed,
	})
}

// options checks the request against the configured bounds and returns the
// engine options with the seed the run will use.
func (h *handler) options(req *Request) ([]cluster.Option, int64, error) {
	if len(req.Features) == 0 {
		return nil, 0, errors.New("features must not be empty")
	}
	if h.cfg.MaxFeatures > 0 && len(req.Features) > h.cfg.MaxFeatures {
		return nil, 0, fmt.Errorf("features is too large, max allowed len is %d", h.cfg.MaxFeatures)
	}
	if req.K <= 0 {
		return nil, 0, fmt.Errorf("k must be greater than 0, got %d", req.K)
	}
	if req.K > len(req.Features) {
		return nil, 0, fmt.Errorf("k (%d) must not exceed the number of points (%d)", req.K, len(req.Features))
	}

	var opts []cluster.Option
	if req.MaxIterations != nil {
		if *req.MaxIterations < 1 || *req.MaxIterations > h.cfg.MaxIterations {
			return nil, 0, fmt.Errorf("maxIterations must be between 1 and %d, got %d", h.cfg.MaxIterations, *req.MaxIterations)
		}
		opts = append(opts, cluster.WithMaxIterations(*req.MaxIterations))
	}
	if req.Runs != nil {
		if *req.Runs < 1 || *req.Runs > h.cfg.MaxRuns {
			return nil, 0, fmt.Errorf("runs must be between 1 and %d, got %d", h.cfg.MaxRuns, *req.Runs)
		}
		opts = append(opts, cluster.WithRuns(*req.Runs))
	}

	seed := int64(fastrand.Uint32())
	if req.Seed != nil {
		seed = *req.Seed
	}
	opts = append(opts, cluster.WithSeed(seed))
	return opts, seed, nil
}
