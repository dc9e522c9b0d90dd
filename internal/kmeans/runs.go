package kmeans

import (
	"net/http"
	"strconv"

	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/run"
)

const defaultRunsLimit = 20

// NewRunsHandler returns the GET /api/runs handler. A nil lister answers 404.
func NewRunsHandler(cfg *Config, lister run.Lister) http.Handler {
	return &runsHandler{cfg: cfg, lister: lister}
}

type runsHandler struct {
	cfg    *Config
	lister run.Lister
}

func (h *runsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		httputil.RespError(ctx, w, http.StatusMethodNotAllowed, "method %v is not allowed", r.Method)
		return
	}
	if h.lister == nil {
		httputil.RespError(ctx, w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := defaultRunsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			httputil.RespBadRequest(ctx, w, "limit must be a positive integer, got %q", s)
			return
		}
		limit = n
	}
	if h.cfg.RunsLimit > 0 && limit > h.cfg.RunsLimit {
		limit = h.cfg.RunsLimit
	}

	runs, err := h.lister.Recent(ctx, limit)
	if err != nil {
		httputil.RespInternalError(ctx, w, "unable list runs: %v", err)
		return
	}

	resp := RunsResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, RunSummary(r))
	}
	httputil.RespJSON(ctx, w, http.StatusOK, resp)
}
