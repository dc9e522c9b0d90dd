package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-sod/kmeans/internal/logging"
	"github.com/go-sod/kmeans/internal/run/model"
)

type appendRunsFn func(context.Context, []model.Run) error

type dbTxExecutorOptions struct {
	dbFlushSize int
	dbFlushTime time.Duration
}

// Accumulates run records and inserts them in bulk.
type dbTxExecutor struct {
	mtx  sync.Mutex
	opts dbTxExecutorOptions
	buf  []model.Run
}

// Writes everything left in the buffer.
func (tx *dbTxExecutor) shutdown(appendFn appendRunsFn) error {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	if len(tx.buf) == 0 {
		return nil
	}
	if err := appendFn(context.Background(), tx.buf); err != nil {
		return fmt.Errorf("txExecutor: append many operation failed: %w", err)
	}
	tx.buf = tx.buf[:0]
	return nil
}

// Adds a record to the buffer and flushes once the buffer is full.
func (tx *dbTxExecutor) append(ctx context.Context, data model.Run, appendFn appendRunsFn) {
	tx.mtx.Lock()
	tx.buf = append(tx.buf, data)
	bufLen := len(tx.buf)
	tx.mtx.Unlock()

	if tx.opts.dbFlushSize > 0 && bufLen >= tx.opts.dbFlushSize {
		if err := tx.bulkAppend(ctx, appendFn); err != nil {
			logging.FromContext(ctx).Errorf("%v", err)
		}
	}
}

func (tx *dbTxExecutor) bulkAppend(ctx context.Context, appendFn appendRunsFn) error {
	tx.mtx.Lock()
	tmpBuf := make([]model.Run, len(tx.buf))
	copy(tmpBuf, tx.buf)
	tx.buf = tx.buf[:0]
	tx.mtx.Unlock()

	if len(tmpBuf) == 0 {
		return nil
	}
	if err := appendFn(ctx, tmpBuf); err != nil {
		tx.restore(tmpBuf)
		return fmt.Errorf("txExecutor: append many operation failed: %w", err)
	}
	return nil
}

// restore puts a batch that failed to write back in front of the records
// buffered since.
func (tx *dbTxExecutor) restore(batch []model.Run) {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	tx.buf = append(batch, tx.buf...)
}

// Flushes the buffer every dbFlushTime until ctx is done, then writes what is
// left.
func (tx *dbTxExecutor) flusher(ctx context.Context, appendFn appendRunsFn) error {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(tx.opts.dbFlushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := tx.bulkAppend(ctx, appendFn); err != nil {
				logger.Errorf("%v", err)
			}
		case <-ctx.Done():
			return tx.shutdown(appendFn)
		}
	}
}
