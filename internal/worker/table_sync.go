package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Syncer pushes locally modified tables to the remote.
type Syncer interface {
	SyncTables(ctx context.Context) error
}

// TableSyncWorker periodically flushes modified tables so layout edits
// made on the terminal reach the remote without an explicit save.
type TableSyncWorker struct {
	syncer   Syncer
	interval time.Duration
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewTableSyncWorker(syncer Syncer, interval time.Duration, logger zerolog.Logger) *TableSyncWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &TableSyncWorker{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

func (w *TableSyncWorker) Start() {
	w.logger.Info().Dur("interval", w.interval).Msg("starting table sync worker")

	go w.run()
}

func (w *TableSyncWorker) Stop() {
	w.logger.Info().Msg("stopping table sync worker")
	w.cancel()
	<-w.done
}

func (w *TableSyncWorker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if err := w.syncer.SyncTables(w.ctx); err != nil {
				w.logger.Error().Err(err).Msg("table sync failed")
			}
		}
	}
}
