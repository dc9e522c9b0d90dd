// Package setup turns the environment configuration into the providers the
// server is assembled from.
package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/database"
	"github.com/go-sod/kmeans/internal/logging"
	"github.com/go-sod/kmeans/internal/metrics"
	"github.com/go-sod/kmeans/internal/run"
	"github.com/go-sod/kmeans/internal/srvenv"
)

type ClusterConfigProvider interface {
	ClusterConfig() *cluster.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type HistoryConfigProvider interface {
	HistoryConfig() *run.Config
}

type MetricsConfigProvider interface {
	MetricsConfig() *metrics.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	if clusterConfigProvider, ok := config.(ClusterConfigProvider); ok {
		logger.Info("Configuring clusterer")
		provideFn, err := ProvideClusterFor(clusterConfigProvider)
		if err != nil {
			return nil, fmt.Errorf("unable create cluster provide function: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithCluster(provideFn))
	}

	var db *database.DB
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok && dbConfigProvider.DatabaseConfig().Enabled() {
		logger.Info("Configuring db")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if historyConfigProvider, ok := config.(HistoryConfigProvider); ok && db != nil {
		logger.Info("Configuring run history")
		provideFn, err := ProvideHistoryFor(historyConfigProvider, db)
		if err != nil {
			return nil, fmt.Errorf("unable create history provide function: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithHistory(provideFn))
	}

	if metricsConfigProvider, ok := config.(MetricsConfigProvider); ok && !metricsConfigProvider.MetricsConfig().Disabled {
		logger.Info("Configuring metrics")
		exporter, err := metrics.NewExporter(metricsConfigProvider.MetricsConfig())
		if err != nil {
			return nil, fmt.Errorf("unable create metrics exporter: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithMetricsHandler(exporter))
	}

	return srvenv.New(serverEnvOpts...), nil
}

// ProvideClusterFor returns a factory applying the configured defaults before
// any per request option.
func ProvideClusterFor(provider ClusterConfigProvider) (cluster.ProvideFn, error) {
	cfg := provider.ClusterConfig()
	defaults := []cluster.Option{
		cluster.WithMaxIterations(cfg.DefaultMaxIterations),
		cluster.WithRuns(cfg.DefaultRuns),
	}
	if _, err := cluster.New(defaults...); err != nil {
		return nil, fmt.Errorf("invalid cluster defaults: %w", err)
	}
	return func(opts ...cluster.Option) (*cluster.KMeans, error) {
		all := make([]cluster.Option, 0, len(defaults)+len(opts))
		all = append(all, defaults...)
		all = append(all, opts...)
		return cluster.New(all...)
	}, nil
}

func ProvideHistoryFor(provider HistoryConfigProvider, db *database.DB) (run.ProvideFn, error) {
	cfg := provider.HistoryConfig()
	if db == nil {
		return nil, fmt.Errorf("run history requires a db")
	}
	return func() (run.Manager, error) {
		return run.New(
			db,
			run.WithFlushSize(cfg.FlushSize),
			run.WithFlushTime(cfg.FlushTime),
			run.WithMaxItemsStored(cfg.MaxItemsStored),
			run.WithMaxStorageTime(cfg.MaxStorageTime),
			run.WithRebuildDBTime(cfg.RebuildDBTime),
		)
	}, nil
}
