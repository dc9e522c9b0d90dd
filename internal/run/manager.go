// Package run keeps an audit log of clustering runs in bbolt.
//
// Only summaries are stored (sizes, iteration count, inertia, timing). They
// are never read back into a computation.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sod/kmeans/internal/database"
	runDb "github.com/go-sod/kmeans/internal/run/database"
	"github.com/go-sod/kmeans/internal/run/model"
)

// Recorder accepts run summaries. Record never blocks on the db for longer
// than a batch write.
type Recorder interface {
	Record(ctx context.Context, run model.Run)
}

// Lister returns the latest run summaries, newest first.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]model.Run, error)
}

type Manager interface {
	Recorder
	Lister
	// Run blocks until ctx is done, then flushes the buffer.
	Run(ctx context.Context) error
}

type ProvideFn func() (Manager, error)

type Options struct {
	flushSize      int
	flushTime      time.Duration
	maxItemsStored int
	maxStorageTime time.Duration
	rebuildDBTime  time.Duration
}

type Option func(*manager)

func WithFlushSize(n int) Option {
	return func(m *manager) {
		m.opts.flushSize = n
	}
}

func WithFlushTime(t time.Duration) Option {
	return func(m *manager) {
		m.opts.flushTime = t
	}
}

func WithMaxItemsStored(n int) Option {
	return func(m *manager) {
		m.opts.maxItemsStored = n
	}
}

func WithMaxStorageTime(t time.Duration) Option {
	return func(m *manager) {
		m.opts.maxStorageTime = t
	}
}

func WithRebuildDBTime(t time.Duration) Option {
	return func(m *manager) {
		m.opts.rebuildDBTime = t
	}
}

var defaultOptions = Options{flushSize: 50, flushTime: 5 * time.Second, rebuildDBTime: time.Minute}

func New(db *database.DB, opts ...Option) (*manager, error) {
	if db == nil {
		return nil, fmt.Errorf("run history requires a db")
	}
	m := &manager{
		opts:  defaultOptions,
		runDB: runDb.New(db),
	}
	for _, f := range opts {
		f(m)
	}
	if m.opts.flushTime <= 0 {
		return nil, fmt.Errorf("flush time must be positive, got %v", m.opts.flushTime)
	}
	if m.opts.rebuildDBTime <= 0 {
		return nil, fmt.Errorf("rebuild time must be positive, got %v", m.opts.rebuildDBTime)
	}

	m.txExecutor = &dbTxExecutor{opts: dbTxExecutorOptions{
		dbFlushSize: m.opts.flushSize,
		dbFlushTime: m.opts.flushTime,
	}}
	m.scheduler = newDBScheduler(dbSchedulerConfig{
		maxItemsStored: m.opts.maxItemsStored,
		maxStorageTime: m.opts.maxStorageTime,
		rebuildDBTime:  m.opts.rebuildDBTime,
		findRuns:       m.runDB.FindAll,
		deleteRuns:     m.runDB.DeleteMany,
		countRuns:      m.runDB.Count,
	})
	return m, nil
}

type manager struct {
	opts       Options
	runDB      *runDb.DB
	txExecutor *dbTxExecutor
	scheduler  *dbScheduler
}

func (m *manager) Run(ctx context.Context) error {
	go m.scheduler.schedule(ctx)
	return m.txExecutor.flusher(ctx, m.runDB.AppendMany)
}

func (m *manager) Record(ctx context.Context, run model.Run) {
	m.txExecutor.append(ctx, run, m.runDB.AppendMany)
}

func (m *manager) Recent(ctx context.Context, limit int) ([]model.Run, error) {
	if err := m.txExecutor.bulkAppend(ctx, m.runDB.AppendMany); err != nil {
		return nil, err
	}
	return m.runDB.Recent(ctx, limit)
}
