package cluster

const (
	DefaultMaxIterations = 300
	DefaultRuns          = 1
)

type Option func(*KMeans)

// WithMaxIterations caps the number of Lloyd iterations of every run.
func WithMaxIterations(n int) Option {
	return func(km *KMeans) {
		km.opts.maxIterations = n
	}
}

// WithRuns sets how many independent seed and refine runs are made. The run
// with the lowest inertia wins.
func WithRuns(n int) Option {
	return func(km *KMeans) {
		km.opts.runs = n
	}
}

// WithSeed makes every Cluster call draw from a source seeded with seed.
func WithSeed(seed int64) Option {
	return func(km *KMeans) {
		km.opts.seed = seed
		km.opts.seeded = true
	}
}

// WithRand makes every Cluster call draw from rnd. The source is shared by
// all calls, so the KMeans value must not be used concurrently.
func WithRand(rnd Rand) Option {
	return func(km *KMeans) {
		km.opts.rnd = rnd
	}
}

type Options struct {
	maxIterations int
	runs          int
	seed          int64
	seeded        bool
	rnd           Rand
}

var defaultOptions = Options{maxIterations: DefaultMaxIterations, runs: DefaultRuns}
