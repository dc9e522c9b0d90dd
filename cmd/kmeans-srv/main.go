package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/go-sod/kmeans/internal/buildinfo"
	"github.com/go-sod/kmeans/internal/config"
	"github.com/go-sod/kmeans/internal/logging"
	"github.com/go-sod/kmeans/internal/run"
	"github.com/go-sod/kmeans/internal/server"
	"github.com/go-sod/kmeans/internal/setup"
	"github.com/go-sod/kmeans/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := runServer(ctx); err != nil {
		logger.Fatal(err)
	}
}

func runServer(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer func() {
		if err := env.Close(context.Background()); err != nil {
			logger.Errorf("env.Close: %v", err)
		}
	}()

	grp, ctx := errgroup.WithContext(ctx)

	var history run.Manager
	if provideFn := env.ProvideHistory(); provideFn != nil {
		history, err = provideFn()
		if err != nil {
			return fmt.Errorf("history provider function error: %w", err)
		}
		grp.Go(func() error {
			if err := history.Run(ctx); err != nil {
				return fmt.Errorf("history.Run: %w", err)
			}
			return nil
		})
	}

	mux, err := newMux(ctx, &cfg, env.ProvideCluster(), history, env.MetricsHandler())
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.SrvAddr, server.WithShutdownTimeout(cfg.ShutdownTimeout))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	logger.Infof("http listening on %s", srv.Addr())
	grp.Go(func() error {
		return srv.ServeHTTPHandler(ctx, mux)
	})

	if cfg.GRPCAddr != "" {
		grpcSrv, err := server.New(cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("server.New: %w", err)
		}
		grpcServer, hs := server.NewGRPC("kmeans")
		logger.Infof("grpc health listening on %s", grpcSrv.Addr())
		grp.Go(func() error {
			<-ctx.Done()
			hs.Shutdown()
			return nil
		})
		grp.Go(func() error {
			return grpcSrv.ServeGRPC(ctx, grpcServer)
		})
	}

	return grp.Wait()
}
