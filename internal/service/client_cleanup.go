package service

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

type cleanupService struct {
	records   store.LocalRecordRepository
	queue     store.SyncQueueRepository
	processor *syncProcessor

	// retention per collection; collections without an entry are kept
	retention map[models.Collection]time.Duration

	now    func() time.Time
	logger *logger.Logger
}

func newCleanupService(
	records store.LocalRecordRepository,
	queue store.SyncQueueRepository,
	processor *syncProcessor,
	retention map[string]time.Duration,
	logger *logger.Logger,
) *cleanupService {
	windows := make(map[models.Collection]time.Duration, len(retention))
	for name, window := range retention {
		collection := models.Collection(name)
		if window <= 0 || collection == models.CollectionSyncQueue || !collection.Valid() {
			continue
		}
		windows[collection] = window
	}

	return &cleanupService{
		records:   records,
		queue:     queue,
		processor: processor,
		retention: windows,
		now:       time.Now,
		logger:    logger,
	}
}

// Cleanup deletes acknowledged records older than their collection's
// retention window. Unsynced records and pending queue entries are never
// evicted by age; the only queue entries removed are those already at the
// retry ceiling.
func (c *cleanupService) Cleanup(ctx context.Context) (models.CleanupReport, error) {
	log := logger.FromContextOr(ctx, c.logger)

	now := c.now()
	report := models.CleanupReport{Deleted: make(map[models.Collection]int)}

	for _, collection := range slices.Sorted(maps.Keys(c.retention)) {
		deleted, err := c.evict(ctx, collection, now.Add(-c.retention[collection]))
		if err != nil {
			return report, err
		}
		if deleted > 0 {
			report.Deleted[collection] = deleted
		}
	}

	purged, err := c.purgeExhausted(ctx)
	report.PurgedEntries = purged
	if err != nil {
		return report, err
	}

	log.Info().
		Str("func", "cleanupService.Cleanup").
		Any("deleted", report.Deleted).
		Int("purged_entries", report.PurgedEntries).
		Msg("cleanup finished")

	return report, nil
}

// evict deletes the synced records of collection written before cutoff. The
// collection lock keeps a concurrent save from being evicted between the scan
// and the delete.
func (c *cleanupService) evict(ctx context.Context, collection models.Collection, cutoff time.Time) (int, error) {
	unlock := c.processor.locks.lock(collection)
	defer unlock()

	synced := true
	query := models.Query{Until: &cutoff, Synced: &synced}

	var expired []string
	for record, err := range c.records.Scan(ctx, collection, query) {
		if err != nil {
			return 0, err
		}
		expired = append(expired, record.Key)
	}

	for i, key := range expired {
		if err := c.records.Delete(ctx, collection, key); err != nil {
			return i, err
		}
	}
	return len(expired), nil
}

// purgeExhausted removes entries already at the retry ceiling. They appear
// when the ceiling is lowered between runs.
func (c *cleanupService) purgeExhausted(ctx context.Context) (int, error) {
	var exhausted []models.QueueEntry
	for entry, err := range c.queue.Scan(ctx) {
		if err != nil {
			return 0, err
		}
		if entry.Retries >= c.processor.maxRetries {
			exhausted = append(exhausted, entry)
		}
	}

	for i, entry := range exhausted {
		if err := c.queue.Remove(ctx, entry.ID); err != nil {
			return i, err
		}
		c.processor.publishAbandoned(ctx, entry)
	}
	return len(exhausted), nil
}
