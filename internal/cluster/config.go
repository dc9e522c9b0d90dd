package cluster

type Config struct {
	DefaultMaxIterations int `envconfig:"KMEANS_DEFAULT_MAX_ITERATIONS" default:"300"`
	DefaultRuns          int `envconfig:"KMEANS_DEFAULT_RUNS" default:"1"`
}

// ProvideFn returns an engine configured with the service defaults followed
// by opts.
type ProvideFn func(opts ...Option) (*KMeans, error)
