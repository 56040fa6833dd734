package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
	"github.com/MKhiriev/go-offline-sync/models"
)

// syncCycle drains the due entries and then re-queues unsynced records that
// lost their queue entry. Newly queued records are drained in the same cycle.
func syncCycle(ctx context.Context, processor SyncProcessor, log *logger.Logger) {
	report, err := processor.Drain(ctx)
	if err != nil {
		log.Err(err).Str("func", "syncCycle").Msg("drain failed")
		return
	}
	if report.Skipped {
		return
	}

	queued, err := processor.Resync(ctx)
	if err != nil {
		log.Err(err).Str("func", "syncCycle").Msg("resync scan failed")
		return
	}
	if queued == 0 {
		return
	}

	second, err := processor.Drain(ctx)
	if err != nil {
		log.Err(err).Str("func", "syncCycle").Msg("drain failed")
		return
	}
	report.Merge(second)

	log.Debug().
		Str("func", "syncCycle").
		Int("resynced", queued).
		Int("succeeded", report.Succeeded).
		Int("remaining", report.Remaining).
		Msg("sync cycle finished")
}

type syncJob struct {
	processor SyncProcessor
	monitor   ConnectivityMonitor
	logger    *logger.Logger
}

// NewSyncJob returns the worker that runs a sync cycle on the current tuning
// interval while online.
func NewSyncJob(processor SyncProcessor, monitor ConnectivityMonitor, logger *logger.Logger) workers.Worker {
	return &syncJob{processor: processor, monitor: monitor, logger: logger}
}

// Run blocks until ctx is cancelled. The interval is re-read before every
// wait so tuning changes apply from the next cycle.
func (j *syncJob) Run(ctx context.Context) error {
	for {
		interval := j.monitor.Tuning().Interval
		if interval <= 0 {
			interval = 30 * time.Second
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}

		if !j.monitor.IsOnline() {
			continue
		}
		syncCycle(ctx, j.processor, j.logger)
	}
}

type connectivityJob struct {
	processor SyncProcessor
	monitor   ConnectivityMonitor
	logger    *logger.Logger
}

// NewConnectivityJob returns the worker that runs a sync cycle on every
// offline to online transition.
func NewConnectivityJob(processor SyncProcessor, monitor ConnectivityMonitor, logger *logger.Logger) workers.Worker {
	return &connectivityJob{processor: processor, monitor: monitor, logger: logger}
}

// Run returns when ctx is cancelled or the monitor closes the stream.
func (j *connectivityJob) Run(ctx context.Context) error {
	before := j.monitor.IsOnline()
	states := j.monitor.Subscribe(ctx)
	online := j.monitor.IsOnline()
	if online && !before {
		syncCycle(ctx, j.processor, j.logger)
	}

	for state := range states {
		now := state.Online
		reconnected := state.Online && !online
		if !state.Online && j.monitor.IsOnline() {
			// back online since this event was published; the online event
			// may have been dropped while a cycle ran
			now, reconnected = true, true
		}
		if reconnected {
			j.logger.Info().
				Str("func", "connectivityJob.Run").
				Str("quality", string(state.Quality)).
				Msg("back online, syncing")
			syncCycle(ctx, j.processor, j.logger)
		}
		online = now
	}
	return nil
}

type cleanupJob struct {
	cleanup  CleanupService
	interval time.Duration
	logger   *logger.Logger
}

// NewCleanupJob returns the worker that runs cleanup on a fixed interval,
// regardless of connectivity.
func NewCleanupJob(cleanup CleanupService, interval time.Duration, logger *logger.Logger) workers.Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &cleanupJob{cleanup: cleanup, interval: interval, logger: logger}
}

func (j *cleanupJob) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := j.cleanup.Cleanup(ctx); err != nil {
				j.logger.Err(err).Str("func", "cleanupJob.Run").Msg("cleanup failed")
			}
		}
	}
}

// abandonedJob logs every abandoned entry so none goes unnoticed when no
// application subscriber is attached.
type abandonedJob struct {
	processor SyncProcessor
	logger    *logger.Logger
}

// NewAbandonedJob returns the worker that logs abandoned entries.
func NewAbandonedJob(processor SyncProcessor, logger *logger.Logger) workers.Worker {
	return &abandonedJob{processor: processor, logger: logger}
}

func (j *abandonedJob) Run(ctx context.Context) error {
	for event := range j.processor.Abandoned(ctx) {
		j.logAbandoned(event)
	}
	return nil
}

func (j *abandonedJob) logAbandoned(event models.SyncAbandoned) {
	j.logger.Error().
		Str("func", "abandonedJob.Run").
		Str("entry_id", event.EntryID).
		Str("operation", string(event.Operation)).
		Str("collection", string(event.Collection)).
		Str("key", event.RecordKey).
		Int("retries", event.Retries).
		Str("last_error", event.LastError).
		Msg("queue entry abandoned, needs reconciliation")
}
