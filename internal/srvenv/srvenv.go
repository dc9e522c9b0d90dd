package srvenv

import (
	"context"
	"net/http"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/database"
	"github.com/go-sod/kmeans/internal/run"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv holds the dependencies built from the configuration.
type SrvEnv struct {
	database *database.DB
	cluster  cluster.ProvideFn
	history  run.ProvideFn
	exporter http.Handler
}

func (s *SrvEnv) ProvideCluster() cluster.ProvideFn {
	return s.cluster
}

// ProvideHistory is nil when run history is disabled.
func (s *SrvEnv) ProvideHistory() run.ProvideFn {
	return s.history
}

// MetricsHandler is nil when metrics are disabled.
func (s *SrvEnv) MetricsHandler() http.Handler {
	return s.exporter
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func WithCluster(fn cluster.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.cluster = fn
		return s
	}
}

func WithHistory(fn run.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.history = fn
		return s
	}
}

func WithMetricsHandler(h http.Handler) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.exporter = h
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
