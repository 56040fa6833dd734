// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/cache"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// offlineDataClearer wipes the local store and the queue in one step.
type offlineDataClearer interface {
	ClearAll(ctx context.Context) error
}

type engine struct {
	records   store.LocalRecordRepository
	queue     store.SyncQueueRepository
	clearer   offlineDataClearer
	processor *syncProcessor
	remote    adapter.RemoteAdapter
	monitor   ConnectivityMonitor
	registry  PolicyRegistry
	ids       utils.IDGenerator

	remoteTimeout time.Duration

	// background refreshes, keyed by cacheKey
	refreshCtx    context.Context
	cancelRefresh context.CancelFunc
	refreshes     sync.WaitGroup
	inflightMu    sync.Mutex
	inflight      map[string]struct{}

	closed atomic.Bool

	now    func() time.Time
	logger *logger.Logger
}

func newEngine(
	records store.LocalRecordRepository,
	queue store.SyncQueueRepository,
	clearer offlineDataClearer,
	processor *syncProcessor,
	registry PolicyRegistry,
	logger *logger.Logger,
) *engine {
	refreshCtx, cancel := context.WithCancel(context.Background())

	return &engine{
		records:       records,
		queue:         queue,
		clearer:       clearer,
		processor:     processor,
		remote:        processor.remote,
		monitor:       processor.monitor,
		registry:      registry,
		ids:           processor.ids,
		remoteTimeout: processor.remoteTimeout,
		refreshCtx:    refreshCtx,
		cancelRefresh: cancel,
		inflight:      make(map[string]struct{}),
		now:           time.Now,
		logger:        logger,
	}
}

// cacheKey is the key of a record's entry in the cache metadata collection.
func cacheKey(collection models.Collection, key string) string {
	return string(collection) + "/" + key
}

func (e *engine) withRemoteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.remoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.remoteTimeout)
}

func (e *engine) SaveData(ctx context.Context, collection models.Collection, payload []byte, opts models.SaveOptions) (models.Record, error) {
	log := logger.FromContextOr(ctx, e.logger)

	if e.closed.Load() {
		return models.Record{}, ErrEngineClosed
	}
	if !collection.Syncable() {
		return models.Record{}, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if !json.Valid(payload) {
		return models.Record{}, ErrInvalidPayload
	}
	if opts.Operation == models.OperationDelete || (opts.Operation != "" && !opts.Operation.Valid()) {
		return models.Record{}, fmt.Errorf("%w: %q", ErrInvalidOperation, opts.Operation)
	}

	key := opts.Key
	if key == "" {
		key = e.ids.Generate()
	}

	unlock := e.processor.locks.lock(collection)
	defer unlock()

	online := e.monitor.IsOnline()
	record := models.Record{
		Collection: collection,
		Key:        key,
		Payload:    json.RawMessage(payload),
		Category:   opts.Category,
		Timestamp:  e.now().UTC(),
		Offline:    !online,
	}

	operation := opts.Operation
	existing, err := e.records.Get(ctx, collection, key)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		if operation == "" {
			operation = models.OperationCreate
		}
	case err != nil:
		return models.Record{}, err
	default:
		if operation == "" {
			operation = models.OperationUpdate
		}
		// versions of one record must be strictly ordered
		if !record.Timestamp.After(existing.Timestamp) {
			record.Timestamp = existing.Timestamp.Add(time.Nanosecond)
		}
	}

	if err = e.records.Put(ctx, record); err != nil {
		return models.Record{}, err
	}
	if _, err = e.queue.RemoveFor(ctx, collection, key); err != nil {
		return record, err
	}

	entry := models.QueueEntry{
		ID:         e.ids.Generate(),
		Operation:  operation,
		Collection: collection,
		RecordKey:  key,
		Snapshot:   record,
		Priority:   opts.Priority,
	}

	if online {
		sendErr := e.send(ctx, entry)
		if sendErr == nil {
			if _, err = e.records.MarkSynced(ctx, collection, key, record.Timestamp); err != nil {
				return record, err
			}
			return record.AsSynced(), nil
		}

		log.Warn().
			Err(sendErr).
			Str("func", "engine.SaveData").
			Str("collection", string(collection)).
			Str("key", key).
			Msg("immediate send failed, queueing")
	}

	if err = e.processor.Enqueue(ctx, entry); err != nil {
		return record, err
	}
	return record, nil
}

func (e *engine) DeleteData(ctx context.Context, collection models.Collection, key string) error {
	log := logger.FromContextOr(ctx, e.logger)

	if e.closed.Load() {
		return ErrEngineClosed
	}
	if !collection.Syncable() {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if key == "" {
		return ErrEmptyKey
	}

	unlock := e.processor.locks.lock(collection)
	defer unlock()

	existing, err := e.records.Get(ctx, collection, key)
	if errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
	}
	if err != nil {
		return err
	}

	if err = e.records.Delete(ctx, collection, key); err != nil {
		return err
	}
	if _, err = e.queue.RemoveFor(ctx, collection, key); err != nil {
		return err
	}
	if err = e.records.Delete(ctx, models.CollectionCacheMetadata, cacheKey(collection, key)); err != nil {
		return err
	}

	entry := models.QueueEntry{
		ID:         e.ids.Generate(),
		Operation:  models.OperationDelete,
		Collection: collection,
		RecordKey:  key,
		Snapshot:   existing,
		Priority:   models.PriorityNormal,
	}

	if e.monitor.IsOnline() {
		sendErr := e.send(ctx, entry)
		if sendErr == nil {
			return nil
		}

		log.Warn().
			Err(sendErr).
			Str("func", "engine.DeleteData").
			Str("collection", string(collection)).
			Str("key", key).
			Msg("immediate delete failed, queueing")
	}

	return e.processor.Enqueue(ctx, entry)
}

func (e *engine) send(ctx context.Context, entry models.QueueEntry) error {
	sendCtx, cancel := e.withRemoteTimeout(ctx)
	defer cancel()

	return e.remote.Apply(sendCtx, entry)
}

func (e *engine) LoadData(ctx context.Context, collection models.Collection, query models.Query) ([]models.Record, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if !collection.Valid() || collection == models.CollectionSyncQueue {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	if query.Key == "" || !collection.Syncable() {
		return e.records.GetAll(ctx, collection, query)
	}

	record, err := e.loadOne(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	return []models.Record{record}, nil
}

// loadOne is the keyed read path driven by the category's cache policy.
func (e *engine) loadOne(ctx context.Context, collection models.Collection, query models.Query) (models.Record, error) {
	log := logger.FromContextOr(ctx, e.logger)

	local, err := e.records.Get(ctx, collection, query.Key)
	hasLocal := err == nil
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return models.Record{}, err
	}

	if !hasLocal {
		// a pending delete must not be resurrected by a fetch
		pending, err := e.queue.HasPending(ctx, collection, query.Key)
		if err != nil {
			return models.Record{}, err
		}
		if pending {
			return models.Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, query.Key)
		}
	}

	category := query.Category
	if category == "" && hasLocal {
		category = local.CategoryOrDefault()
	}
	if category == "" {
		category = string(collection)
	}

	var age time.Duration
	if hasLocal {
		age, err = e.age(ctx, local)
		if err != nil {
			return models.Record{}, err
		}
	}

	decision := cache.Decide(e.registry.Policy(category), hasLocal, age)

	log.Debug().
		Str("func", "engine.loadOne").
		Str("collection", string(collection)).
		Str("key", query.Key).
		Str("category", category).
		Stringer("action", decision.Action).
		Bool("refresh", decision.Refresh).
		Bool("stale", decision.Stale).
		Msg("cache decision")

	if decision.Action == cache.ServeLocal {
		if decision.Refresh {
			e.refreshInBackground(collection, query.Key)
		}
		return local, nil
	}

	if !e.monitor.IsOnline() {
		if hasLocal {
			return local, nil
		}
		return models.Record{}, fmt.Errorf("%w: %w: %w", adapter.ErrRemoteFailure, adapter.ErrUnavailable, ErrOffline)
	}

	fetchCtx := ctx
	if decision.Bounded {
		var cancel context.CancelFunc
		fetchCtx, cancel = e.withRemoteTimeout(ctx)
		defer cancel()
	}

	fetched, fetchErr := e.fetchAndStore(fetchCtx, ctx, collection, query.Key)
	if fetchErr == nil {
		return fetched, nil
	}
	if errors.Is(fetchErr, store.ErrStorageFailure) {
		return models.Record{}, fetchErr
	}

	log.Warn().
		Err(fetchErr).
		Str("func", "engine.loadOne").
		Str("collection", string(collection)).
		Str("key", query.Key).
		Bool("fallback_local", hasLocal && decision.FallbackLocal).
		Msg("remote fetch failed")

	if hasLocal && decision.FallbackLocal {
		return local, nil
	}
	if errors.Is(fetchErr, adapter.ErrNotFound) {
		return models.Record{}, fmt.Errorf("%w: %w", ErrNotFound, fetchErr)
	}
	return models.Record{}, fetchErr
}

// age is the time since the local value was last written or refreshed from
// the remote, whichever is later.
func (e *engine) age(ctx context.Context, local models.Record) (time.Duration, error) {
	refreshed := local.Timestamp

	meta, err := e.records.Get(ctx, models.CollectionCacheMetadata, cacheKey(local.Collection, local.Key))
	switch {
	case err == nil:
		if meta.Timestamp.After(refreshed) {
			refreshed = meta.Timestamp
		}
	case !errors.Is(err, store.ErrRecordNotFound):
		return 0, err
	}

	return max(e.now().Sub(refreshed), 0), nil
}

// fetchAndStore fetches the remote value under fetchCtx and stores it under
// ctx. An unsynced local value is never overwritten: it is returned instead.
func (e *engine) fetchAndStore(fetchCtx, ctx context.Context, collection models.Collection, key string) (models.Record, error) {
	remote, err := e.remote.Fetch(fetchCtx, collection, key)
	if err != nil {
		return models.Record{}, err
	}

	unlock := e.processor.locks.lock(collection)
	defer unlock()

	local, err := e.records.Get(ctx, collection, key)
	switch {
	case err == nil:
		if !local.Synced {
			return local, nil
		}
	case errors.Is(err, store.ErrRecordNotFound):
		pending, err := e.queue.HasPending(ctx, collection, key)
		if err != nil {
			return models.Record{}, err
		}
		if pending {
			return models.Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
		}
	default:
		return models.Record{}, err
	}

	record := remote.ToRecord()
	record.Collection = collection
	record.Key = key
	if record.Timestamp.IsZero() {
		record.Timestamp = remote.UpdatedAt
	}
	if err = e.records.Put(ctx, record); err != nil {
		return models.Record{}, err
	}

	now := e.now().UTC()
	meta, err := json.Marshal(struct {
		Collection models.Collection `json:"collection"`
		Key        string            `json:"key"`
		FetchedAt  time.Time         `json:"fetched_at"`
	}{collection, key, now})
	if err != nil {
		return models.Record{}, err
	}

	err = e.records.Put(ctx, models.Record{
		Collection: models.CollectionCacheMetadata,
		Key:        cacheKey(collection, key),
		Payload:    meta,
		Timestamp:  now,
		Synced:     true,
	})
	if err != nil {
		return models.Record{}, err
	}

	return record, nil
}

// refreshInBackground starts at most one refresh per record. It never blocks
// the caller.
func (e *engine) refreshInBackground(collection models.Collection, key string) {
	if !e.monitor.IsOnline() {
		return
	}

	id := cacheKey(collection, key)
	e.inflightMu.Lock()
	if _, running := e.inflight[id]; running || e.closed.Load() {
		e.inflightMu.Unlock()
		return
	}
	e.inflight[id] = struct{}{}
	e.refreshes.Add(1)
	e.inflightMu.Unlock()

	go func() {
		defer func() {
			e.inflightMu.Lock()
			delete(e.inflight, id)
			e.inflightMu.Unlock()
			e.refreshes.Done()
		}()

		// Close cancels the fetch only; a fetched value is always stored
		fetchCtx, cancel := e.withRemoteTimeout(e.refreshCtx)
		defer cancel()

		if _, err := e.fetchAndStore(fetchCtx, context.WithoutCancel(e.refreshCtx), collection, key); err != nil {
			e.logger.Debug().
				Err(err).
				Str("func", "engine.refreshInBackground").
				Str("collection", string(collection)).
				Str("key", key).
				Msg("background refresh failed")
		}
	}()
}

func (e *engine) GetOfflineStatus(ctx context.Context) (models.OfflineStatus, error) {
	stats, err := e.records.Stats(ctx)
	if err != nil {
		return models.OfflineStatus{}, err
	}

	size, err := e.queue.Count(ctx)
	if err != nil {
		return models.OfflineStatus{}, err
	}

	return models.OfflineStatus{
		IsOnline:  e.monitor.IsOnline(),
		QueueSize: size,
		Stores:    stats,
		Tuning:    e.monitor.Tuning(),
		LastSync:  e.processor.LastReport(),
	}, nil
}

// ForceSyncAll re-queues unsynced records and drains the whole queue,
// ignoring backoff. While offline nothing is attempted, so no retries are
// spent.
func (e *engine) ForceSyncAll(ctx context.Context) (models.SyncReport, error) {
	if e.closed.Load() {
		return models.SyncReport{}, ErrEngineClosed
	}
	if !e.monitor.IsOnline() {
		return models.SyncReport{}, ErrOffline
	}

	if _, err := e.processor.Resync(ctx); err != nil {
		return models.SyncReport{}, err
	}
	return e.processor.ForceDrain(ctx)
}

func (e *engine) ClearOfflineData(ctx context.Context) error {
	log := logger.FromContextOr(ctx, e.logger)

	if e.closed.Load() {
		return ErrEngineClosed
	}

	if err := e.clearer.ClearAll(ctx); err != nil {
		return err
	}

	log.Info().
		Str("func", "engine.ClearOfflineData").
		Msg("offline data cleared")
	return nil
}

func (e *engine) Abandoned(ctx context.Context) <-chan models.SyncAbandoned {
	return e.processor.Abandoned(ctx)
}

// Close cancels in-flight refresh fetches, waits for the refreshes to finish
// and ends abandoned-event streams. A refresh whose fetch already returned
// still stores its result. Close is idempotent.
func (e *engine) Close() error {
	// closed flips under inflightMu so no refresh is added after Wait starts
	e.inflightMu.Lock()
	if !e.closed.CompareAndSwap(false, true) {
		e.inflightMu.Unlock()
		return nil
	}
	e.inflightMu.Unlock()

	e.cancelRefresh()
	e.refreshes.Wait()
	e.processor.close()
	return nil
}
