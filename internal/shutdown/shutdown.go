package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-sod/kmeans/internal/logging"
)

// New returns a context that is canceled on SIGINT or SIGTERM, and the
// function that cancels it.
func New() (context.Context, func()) {
	ctx, done := context.WithCancel(context.Background())
	ctx = logging.WithLogger(ctx, logging.DefaultLogger())

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signalCh)

		select {
		case sig := <-signalCh:
			logging.FromContext(ctx).Infof("received signal %v, shutting down", sig)
		case <-ctx.Done():
		}
		done()
	}()

	return ctx, done
}
