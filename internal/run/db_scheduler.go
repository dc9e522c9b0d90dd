package run

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sod/kmeans/internal/logging"
	runDb "github.com/go-sod/kmeans/internal/run/database"
	"github.com/go-sod/kmeans/internal/run/model"
)

type (
	findRunsFn   func(context.Context, runDb.FilterFn) ([]model.Run, error)
	deleteRunsFn func(context.Context, []model.Run) error
	countRunsFn  func(context.Context) (int, error)
)

type dbSchedulerConfig struct {
	maxItemsStored int
	maxStorageTime time.Duration
	rebuildDBTime  time.Duration
	findRuns       findRunsFn
	deleteRuns     deleteRunsFn
	countRuns      countRunsFn
}

// Applies the retention policy to the stored runs.
type dbScheduler struct {
	opts dbSchedulerConfig
	now  func() time.Time
}

func newDBScheduler(config dbSchedulerConfig) *dbScheduler {
	return &dbScheduler{opts: config, now: time.Now}
}

func (s *dbScheduler) processOutdatedRuns(ctx context.Context) error {
	now := s.now()
	runs, err := s.opts.findRuns(ctx, func(run model.Run) bool {
		return now.Sub(run.CreatedAt) > s.opts.maxStorageTime
	})
	if err != nil {
		return fmt.Errorf("unable find outdated runs: %w", err)
	}
	if err := s.opts.deleteRuns(ctx, runs); err != nil {
		return fmt.Errorf("unable delete outdated runs: %w", err)
	}
	return nil
}

// runs come back oldest first, so the head of the list is trimmed
func (s *dbScheduler) processOverSizeRuns(ctx context.Context) error {
	length, err := s.opts.countRuns(ctx)
	if err != nil {
		return fmt.Errorf("unable count runs: %w", err)
	}
	if length <= s.opts.maxItemsStored {
		return nil
	}
	runs, err := s.opts.findRuns(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable find runs: %w", err)
	}
	if len(runs) <= s.opts.maxItemsStored {
		return nil
	}
	if err := s.opts.deleteRuns(ctx, runs[:len(runs)-s.opts.maxItemsStored]); err != nil {
		return fmt.Errorf("unable delete oversize runs: %w", err)
	}
	return nil
}

func (s *dbScheduler) rebuild(ctx context.Context) {
	logger := logging.FromContext(ctx)
	if s.opts.maxStorageTime > 0 {
		if err := s.processOutdatedRuns(ctx); err != nil {
			logger.Errorf("unable db rebuild outdated: %v", err)
		}
	}
	if s.opts.maxItemsStored > 0 {
		if err := s.processOverSizeRuns(ctx); err != nil {
			logger.Errorf("unable db rebuild size: %v", err)
		}
	}
}

func (s *dbScheduler) schedule(ctx context.Context) {
	ticker := time.NewTicker(s.opts.rebuildDBTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.rebuild(ctx)
		case <-ctx.Done():
			return
		}
	}
}
