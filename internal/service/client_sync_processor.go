// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// maxForcePasses bounds ForceDrain when entries keep arriving.
const maxForcePasses = 1000

type syncProcessor struct {
	records store.LocalRecordRepository
	queue   store.SyncQueueRepository
	remote  adapter.RemoteAdapter
	monitor ConnectivityMonitor
	ids     utils.IDGenerator

	maxRetries    int
	baseDelay     time.Duration
	maxDelay      time.Duration
	remoteTimeout time.Duration

	// draining is the in-progress flag: at most one pass runs system-wide.
	draining  atomic.Bool
	locks     *collectionLocks
	last      atomic.Pointer[models.SyncReport]
	abandoned *utils.Broadcaster[models.SyncAbandoned]

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncProcessor constructs the [SyncProcessor] draining queue through
// remote.
func NewSyncProcessor(
	records store.LocalRecordRepository,
	queue store.SyncQueueRepository,
	remote adapter.RemoteAdapter,
	monitor ConnectivityMonitor,
	ids utils.IDGenerator,
	cfg config.Sync,
	logger *logger.Logger,
) SyncProcessor {
	return newSyncProcessor(records, queue, remote, monitor, ids, cfg, logger)
}

func newSyncProcessor(
	records store.LocalRecordRepository,
	queue store.SyncQueueRepository,
	remote adapter.RemoteAdapter,
	monitor ConnectivityMonitor,
	ids utils.IDGenerator,
	cfg config.Sync,
	logger *logger.Logger,
) *syncProcessor {
	return &syncProcessor{
		records:       records,
		queue:         queue,
		remote:        remote,
		monitor:       monitor,
		ids:           ids,
		maxRetries:    max(cfg.MaxRetries, 1),
		baseDelay:     cfg.BaseDelay,
		maxDelay:      cfg.MaxDelay,
		remoteTimeout: cfg.RemoteTimeout,
		locks:         newCollectionLocks(),
		abandoned:     utils.NewLosslessBroadcaster[models.SyncAbandoned](64),
		now:           time.Now,
		logger:        logger,
	}
}

func (p *syncProcessor) Enqueue(ctx context.Context, entry models.QueueEntry) error {
	if entry.ID == "" {
		entry.ID = p.ids.Generate()
	}
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = p.now().UTC()
	}
	entry.Retries = 0
	entry.NextAttemptAt = time.Time{}
	entry.LastError = ""

	return p.queue.Enqueue(ctx, entry)
}

func (p *syncProcessor) Abandoned(ctx context.Context) <-chan models.SyncAbandoned {
	return p.abandoned.Subscribe(ctx)
}

func (p *syncProcessor) LastReport() *models.SyncReport {
	return p.last.Load()
}

// close ends every abandoned-event subscription.
func (p *syncProcessor) close() {
	p.abandoned.Close()
}

func (p *syncProcessor) Drain(ctx context.Context) (models.SyncReport, error) {
	if !p.draining.CompareAndSwap(false, true) {
		return models.SyncReport{Skipped: true, StartedAt: p.now()}, nil
	}
	defer p.draining.Store(false)

	now := p.now()
	report := models.SyncReport{StartedAt: now}

	entries, err := p.queue.Due(ctx, now, p.batchSize())
	if err != nil {
		err = fmt.Errorf("error selecting queue entries: %w", err)
	} else {
		err = p.pass(ctx, entries, &report)
	}

	p.finish(ctx, &report, false)
	return report, err
}

// ForceDrain attempts every queued entry once, backoff ignored, batch by
// batch. Entries enqueued while it runs are picked up too.
func (p *syncProcessor) ForceDrain(ctx context.Context) (models.SyncReport, error) {
	if !p.draining.CompareAndSwap(false, true) {
		return models.SyncReport{Skipped: true, StartedAt: p.now()}, nil
	}
	defer p.draining.Store(false)

	report := models.SyncReport{StartedAt: p.now()}
	attempted := make(map[string]struct{})

	var err error
	for range maxForcePasses {
		var queued []models.QueueEntry
		queued, err = p.queue.Head(ctx, 0)
		if err != nil {
			err = fmt.Errorf("error selecting queue entries: %w", err)
			break
		}

		batch := make([]models.QueueEntry, 0, p.batchSize())
		for _, entry := range queued {
			if _, seen := attempted[entry.ID]; seen {
				continue
			}
			attempted[entry.ID] = struct{}{}
			batch = append(batch, entry)
			if len(batch) == cap(batch) {
				break
			}
		}
		if len(batch) == 0 {
			break
		}

		if err = p.pass(ctx, batch, &report); err != nil {
			break
		}
	}

	p.finish(ctx, &report, true)
	return report, err
}

func (p *syncProcessor) batchSize() int {
	return max(p.monitor.Tuning().BatchSize, 1)
}

func (p *syncProcessor) finish(ctx context.Context, report *models.SyncReport, force bool) {
	log := logger.FromContextOr(ctx, p.logger)

	if remaining, err := p.queue.Count(ctx); err == nil {
		report.Remaining = remaining
	}
	report.Duration = p.now().Sub(report.StartedAt)

	last := *report
	p.last.Store(&last)

	log.Info().
		Str("func", "syncProcessor.finish").
		Bool("force", force).
		Int("attempted", report.Attempted).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int("abandoned", report.Abandoned).
		Int("remaining", report.Remaining).
		Dur("duration", report.Duration).
		Msg("drain finished")
}

// pass transmits entries in order and stops at the first storage failure.
func (p *syncProcessor) pass(ctx context.Context, entries []models.QueueEntry, report *models.SyncReport) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.process(ctx, entry, report); err != nil {
			return err
		}
	}
	return nil
}

// process applies one entry. Remote failures are absorbed into the report;
// only storage failures are returned.
//
// The collection lock is held for the whole attempt so a concurrent save of
// the same record cannot overtake it on the remote.
func (p *syncProcessor) process(ctx context.Context, entry models.QueueEntry, report *models.SyncReport) error {
	log := logger.FromContextOr(ctx, p.logger)

	unlock := p.locks.lock(entry.Collection)
	defer unlock()

	stale, err := p.isStale(ctx, entry)
	if err != nil {
		return err
	}
	if stale {
		log.Debug().
			Str("func", "syncProcessor.process").
			Str("entry_id", entry.ID).
			Str("key", entry.RecordKey).
			Msg("dropping entry superseded by a newer local write")
		return p.queue.Remove(ctx, entry.ID)
	}
	report.Attempted++

	applyCtx := ctx
	if p.remoteTimeout > 0 {
		var cancel context.CancelFunc
		applyCtx, cancel = context.WithTimeout(ctx, p.remoteTimeout)
		defer cancel()
	}

	applyErr := p.remote.Apply(applyCtx, entry)
	if applyErr == nil {
		return p.succeed(ctx, entry, report)
	}

	if ctx.Err() != nil {
		// shutdown, not a remote verdict: the attempt does not count
		return ctx.Err()
	}

	retries := entry.Retries + 1
	entry.Retries = retries
	entry.LastError = applyErr.Error()

	if retries >= p.maxRetries {
		if err := p.queue.Remove(ctx, entry.ID); err != nil {
			return err
		}
		report.Abandoned++
		p.publishAbandoned(ctx, entry)
		return nil
	}

	next := p.now().Add(p.backoff(retries))
	if err := p.queue.MarkFailed(ctx, entry.ID, retries, next, entry.LastError); err != nil {
		if errors.Is(err, store.ErrQueueEntryNotFound) {
			// superseded by a newer snapshot while in flight
			return nil
		}
		return err
	}
	report.Failed++

	log.Warn().
		Err(applyErr).
		Str("func", "syncProcessor.process").
		Str("entry_id", entry.ID).
		Str("collection", string(entry.Collection)).
		Str("key", entry.RecordKey).
		Int("retries", retries).
		Time("next_attempt_at", next).
		Msg("remote operation failed, will retry")

	return nil
}

// isStale reports whether entry no longer describes the current local state
// of its record: the record changed since the snapshot, or a deleted record
// was written again.
func (p *syncProcessor) isStale(ctx context.Context, entry models.QueueEntry) (bool, error) {
	current, err := p.records.Get(ctx, entry.Collection, entry.RecordKey)
	if errors.Is(err, store.ErrRecordNotFound) {
		return entry.Operation != models.OperationDelete, nil
	}
	if err != nil {
		return false, err
	}

	if entry.Operation == models.OperationDelete {
		return true, nil
	}
	return !current.Timestamp.Equal(entry.Snapshot.Timestamp), nil
}

func (p *syncProcessor) succeed(ctx context.Context, entry models.QueueEntry, report *models.SyncReport) error {
	log := logger.FromContextOr(ctx, p.logger)

	if err := p.queue.Remove(ctx, entry.ID); err != nil {
		return err
	}
	report.Succeeded++

	if entry.Operation == models.OperationDelete {
		return nil
	}

	marked, err := p.records.MarkSynced(ctx, entry.Collection, entry.RecordKey, entry.Snapshot.Timestamp)
	if err != nil {
		// the resync scan picks the record up again
		return err
	}
	if !marked {
		log.Debug().
			Str("func", "syncProcessor.succeed").
			Str("entry_id", entry.ID).
			Str("key", entry.RecordKey).
			Msg("record changed or removed since enqueue, left unsynced")
	}
	return nil
}

func (p *syncProcessor) publishAbandoned(ctx context.Context, entry models.QueueEntry) {
	log := logger.FromContextOr(ctx, p.logger)

	event := models.AbandonedFrom(entry, p.now())
	log.Error().
		Str("func", "syncProcessor.publishAbandoned").
		Str("entry_id", entry.ID).
		Str("collection", string(entry.Collection)).
		Str("key", entry.RecordKey).
		Int("retries", entry.Retries).
		Str("last_error", entry.LastError).
		Msg(ErrSyncAbandoned.Error())

	p.abandoned.Publish(event)
}

// backoff returns baseDelay * 2^(retries-1), capped by maxDelay.
func (p *syncProcessor) backoff(retries int) time.Duration {
	if p.baseDelay <= 0 || retries < 1 {
		return 0
	}

	delay := p.baseDelay
	for i := 1; i < retries; i++ {
		delay *= 2
		if p.maxDelay > 0 && delay >= p.maxDelay {
			return p.maxDelay
		}
	}
	if p.maxDelay > 0 && delay > p.maxDelay {
		return p.maxDelay
	}
	return delay
}

func (p *syncProcessor) Resync(ctx context.Context) (int, error) {
	log := logger.FromContextOr(ctx, p.logger)

	queued := 0
	for _, collection := range models.DataCollections() {
		// collect first: the store holds a single connection during a scan
		var unsynced []models.Record
		for record, err := range p.records.Scan(ctx, collection, models.UnsyncedQuery()) {
			if err != nil {
				return queued, err
			}
			unsynced = append(unsynced, record)
		}

		for _, record := range unsynced {
			pending, err := p.queue.HasPending(ctx, record.Collection, record.Key)
			if err != nil {
				return queued, err
			}
			if pending {
				continue
			}

			err = p.Enqueue(ctx, models.QueueEntry{
				Operation:  models.OperationUpdate,
				Collection: record.Collection,
				RecordKey:  record.Key,
				Snapshot:   record,
				Priority:   models.PriorityNormal,
			})
			if err != nil {
				return queued, err
			}
			queued++
		}
	}

	if queued > 0 {
		log.Info().
			Str("func", "syncProcessor.Resync").
			Int("queued", queued).
			Msg("unsynced records re-queued")
	}
	return queued, nil
}
