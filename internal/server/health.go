package server

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/go-sod/kmeans/internal/httputil"
)

// HandleHealth answers 200 while ctx is alive and 503 once shutdown began.
func HandleHealth(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx.Err() != nil {
			httputil.RespError(r.Context(), w, http.StatusServiceUnavailable, "shutting down")
			return
		}
		httputil.RespJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewGRPC returns a gRPC server with the standard health service registered
// and every listed service marked as serving.
func NewGRPC(services ...string) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, s := range services {
		hs.SetServingStatus(s, healthpb.HealthCheckResponse_SERVING)
	}
	return srv, hs
}
