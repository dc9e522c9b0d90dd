package metrics

type Config struct {
	// Prefix of every exported metric name
	Namespace string `envconfig:"KMEANS_METRICS_NAMESPACE" default:"kmeans"`
	// Disables the /metrics endpoint
	Disabled bool `envconfig:"KMEANS_METRICS_DISABLED" default:"false"`
}
