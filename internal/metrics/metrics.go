// Package metrics records clustering runs with OpenCensus and exposes them
// in the Prometheus text format.
package metrics

import (
	"context"
	"fmt"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/go-sod/kmeans/internal/logging"
)

const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeTimeout  = "timeout"
	OutcomeInternal = "internal"
)

var (
	KeyOutcome = tag.MustNewKey("outcome")

	MeasureRuns       = stats.Int64("kmeans/runs", "Number of clustering requests", stats.UnitDimensionless)
	MeasureIterations = stats.Int64("kmeans/iterations", "Lloyd iterations of a run", stats.UnitDimensionless)
	MeasurePoints     = stats.Int64("kmeans/points", "Points per request", stats.UnitDimensionless)
	MeasureLatency    = stats.Float64("kmeans/latency", "Clustering latency", stats.UnitMilliseconds)
)

var (
	RunsView = &view.View{
		Name:        "kmeans/runs_total",
		Measure:     MeasureRuns,
		Description: "Clustering requests by outcome",
		TagKeys:     []tag.Key{KeyOutcome},
		Aggregation: view.Count(),
	}
	IterationsView = &view.View{
		Name:        "kmeans/iterations",
		Measure:     MeasureIterations,
		Description: "Distribution of Lloyd iterations",
		Aggregation: view.Distribution(1, 2, 5, 10, 20, 50, 100, 200, 300, 500, 1000),
	}
	PointsView = &view.View{
		Name:        "kmeans/points",
		Measure:     MeasurePoints,
		Description: "Distribution of points per request",
		Aggregation: view.Distribution(10, 100, 1000, 10000, 100000, 1000000),
	}
	LatencyView = &view.View{
		Name:        "kmeans/latency_ms",
		Measure:     MeasureLatency,
		Description: "Distribution of clustering latency",
		TagKeys:     []tag.Key{KeyOutcome},
		Aggregation: view.Distribution(0.5, 1, 5, 10, 50, 100, 500, 1000, 5000, 30000),
	}

	Views = []*view.View{RunsView, IterationsView, PointsView, LatencyView}
)

// Register registers every view of the package.
func Register() error {
	if err := view.Register(Views...); err != nil {
		return fmt.Errorf("register views: %w", err)
	}
	return nil
}

// NewExporter registers the views and returns the handler serving them.
func NewExporter(config *Config) (*ocprom.Exporter, error) {
	if err := Register(); err != nil {
		return nil, err
	}
	exporter, err := ocprom.NewExporter(ocprom.Options{Namespace: config.Namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return exporter, nil
}

// RecordRun records a finished request. iterations is ignored unless the
// outcome is OutcomeOK.
func RecordRun(ctx context.Context, outcome string, points, iterations int, latency time.Duration) {
	ms := float64(latency) / float64(time.Millisecond)
	measurements := []stats.Measurement{MeasureRuns.M(1), MeasureLatency.M(ms)}
	if points > 0 {
		measurements = append(measurements, MeasurePoints.M(int64(points)))
	}
	if outcome == OutcomeOK {
		measurements = append(measurements, MeasureIterations.M(int64(iterations)))
	}
	if err := stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyOutcome, outcome)}, measurements...); err != nil {
		logging.FromContext(ctx).Errorf("record metrics: %v", err)
	}
}
