package kmeans

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"KMEANS_REQUEST_TIMEOUT" default:"30s"`
	// Maximum number of points in a single request
	MaxFeatures int `envconfig:"KMEANS_MAX_FEATURES" default:"100000"`
	// Upper bound for the maxIterations request field
	MaxIterations int `envconfig:"KMEANS_MAX_ITERATIONS" default:"10000"`
	// Upper bound for the runs request field
	MaxRuns        int      `envconfig:"KMEANS_MAX_RUNS" default:"50"`
	MaxBodyBytes   int64    `envconfig:"KMEANS_MAX_BODY_BYTES" default:"67108864"`
	AllowedOrigins []string `envconfig:"KMEANS_CORS_ORIGINS" default:"*"`
	// Largest page served by /api/runs
	RunsLimit int `envconfig:"KMEANS_RUNS_LIMIT" default:"100"`
}
