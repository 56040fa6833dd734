package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

func TestCleanup_EvictsOnlySyncedRecordsPastRetention(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()
	now := time.Now().UTC()

	put := func(collection models.Collection, key string, age time.Duration, synced bool) {
		require.NoError(t, env.storages.Records.Put(ctx, models.Record{
			Collection: collection,
			Key:        key,
			Payload:    json.RawMessage(`{}`),
			Timestamp:  now.Add(-age),
			Synced:     synced,
			Offline:    !synced,
		}))
	}

	put(models.CollectionHistory, "old-synced", 10*24*time.Hour, true)
	put(models.CollectionHistory, "fresh-synced", time.Hour, true)
	put(models.CollectionAppData, "app-old", 10*24*time.Hour, true)
	put(models.CollectionSettings, "ancient", 400*24*time.Hour, true)
	// never synced and no longer queued, as after abandonment
	put(models.CollectionHistory, "old-abandoned", 10*24*time.Hour, false)

	// unsynced and queued: exempt from eviction whatever its age
	old := env.putAndEnqueue(t, models.CollectionHistory, "old-unsynced", models.PriorityNormal)
	old.Snapshot.Timestamp = now.Add(-30 * 24 * time.Hour)
	require.NoError(t, env.storages.Records.Put(ctx, old.Snapshot))

	report, err := env.cleanup.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.Collection]int{models.CollectionHistory: 1}, report.Deleted)
	assert.Zero(t, report.PurgedEntries)

	_, err = env.storages.Records.Get(ctx, models.CollectionHistory, "old-synced")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	for _, r := range []struct {
		collection models.Collection
		key        string
	}{
		{models.CollectionHistory, "fresh-synced"},
		{models.CollectionHistory, "old-unsynced"},
		{models.CollectionHistory, "old-abandoned"},
		{models.CollectionAppData, "app-old"},
		{models.CollectionSettings, "ancient"},
	} {
		_, err = env.storages.Records.Get(ctx, r.collection, r.key)
		assert.NoError(t, err, "%s/%s", r.collection, r.key)
	}
	assert.Equal(t, 1, env.queueSize(t))
}

func TestCleanup_RetentionWindowIsConfigurable(t *testing.T) {
	cfg := testSyncConfig()
	cfg.RetentionHistory = time.Minute
	env := newTestEnv(t, false, cfg)
	ctx := context.Background()

	require.NoError(t, env.storages.Records.Put(ctx, models.Record{
		Collection: models.CollectionHistory,
		Key:        "h",
		Payload:    json.RawMessage(`{}`),
		Timestamp:  time.Now().UTC().Add(-time.Hour),
		Synced:     true,
	}))

	report, err := env.cleanup.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted[models.CollectionHistory])
}

func TestCleanup_PurgesEntriesAtRetryCeiling(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := env.processor.Abandoned(ctx)

	exhausted := env.putAndEnqueue(t, models.CollectionHistory, "stuck", models.PriorityNormal)
	env.putAndEnqueue(t, models.CollectionHistory, "fine", models.PriorityNormal)

	// left over from a run with a higher ceiling
	require.NoError(t, env.storages.Queue.MarkFailed(ctx, exhausted.ID, 5, time.Now().Add(time.Hour), "remote failure"))

	report, err := env.cleanup.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PurgedEntries)
	assert.Equal(t, 1, env.queueSize(t))

	select {
	case ev := <-events:
		assert.Equal(t, "stuck", ev.RecordKey)
		assert.Equal(t, 5, ev.Retries)
		assert.Equal(t, "remote failure", ev.LastError)
	case <-time.After(time.Second):
		t.Fatal("no abandoned event")
	}

	// the record itself stays for manual reconciliation
	assert.False(t, env.record(t, models.CollectionHistory, "stuck").Synced)
}
