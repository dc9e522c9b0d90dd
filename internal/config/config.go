package config

import (
	"time"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/database"
	"github.com/go-sod/kmeans/internal/kmeans"
	"github.com/go-sod/kmeans/internal/logging"
	"github.com/go-sod/kmeans/internal/metrics"
	"github.com/go-sod/kmeans/internal/run"
	"github.com/go-sod/kmeans/internal/setup"
)

var (
	_ setup.ClusterConfigProvider  = (*Config)(nil)
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.HistoryConfigProvider  = (*Config)(nil)
	_ setup.MetricsConfigProvider  = (*Config)(nil)
)

type Config struct {
	SrvAddr string `envconfig:"KMEANS_ADDR" default:":8787"`
	// Empty address disables the gRPC health listener
	GRPCAddr        string        `envconfig:"KMEANS_GRPC_ADDR"`
	ShutdownTimeout time.Duration `envconfig:"KMEANS_SHUTDOWN_TIMEOUT" default:"10s"`
	Log             logging.Config
	Cluster         cluster.Config
	KMeans          kmeans.Config
	Database        database.Config
	History         run.Config
	Metrics         metrics.Config
}

func (c *Config) ClusterConfig() *cluster.Config {
	return &c.Cluster
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) HistoryConfig() *run.Config {
	return &c.History
}

func (c *Config) MetricsConfig() *metrics.Config {
	return &c.Metrics
}
