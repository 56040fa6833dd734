// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

// ── scenarios ────────────────────────────────────────────────────────────────

func TestEngine_OfflineSaveSyncsAfterReconnect(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	saved, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"x":1}`), models.SaveOptions{})
	require.NoError(t, err)
	assert.True(t, saved.Offline)
	assert.False(t, saved.Synced)
	assert.NotEmpty(t, saved.Key)

	status, err := env.engine.GetOfflineStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
	assert.Equal(t, 1, status.QueueSize)
	assert.Equal(t, 1, status.Stores[models.CollectionHistory].Unsynced)

	env.monitor.SetOnline(true)
	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.QueueEntry) error {
			assert.Equal(t, models.OperationCreate, e.Operation)
			assert.JSONEq(t, `{"x":1}`, string(e.Snapshot.Payload))
			return nil
		})

	_, err = env.processor.Drain(ctx)
	require.NoError(t, err)

	status, err = env.engine.GetOfflineStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.QueueSize)
	require.NotNil(t, status.LastSync)
	assert.Equal(t, 1, status.LastSync.Succeeded)

	stored := env.record(t, models.CollectionHistory, saved.Key)
	assert.True(t, stored.Synced)
	assert.False(t, stored.Offline)
}

func TestEngine_DurabilityAcrossManyOfflineWrites(t *testing.T) {
	remote := newFakeRemote()
	env := newTestEnvWithRemote(t, false, testSyncConfig(), remote)
	ctx := context.Background()

	var keys []string
	for _, c := range models.DataCollections() {
		for range 4 {
			r, err := env.engine.SaveData(ctx, c, []byte(`{"v":true}`), models.SaveOptions{})
			require.NoError(t, err)
			keys = append(keys, string(c)+"/"+r.Key)
		}
	}

	env.monitor.SetOnline(true)
	report, err := env.engine.ForceSyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(keys), report.Succeeded)

	for _, c := range models.DataCollections() {
		records, err := env.engine.LoadData(ctx, c, models.Query{})
		require.NoError(t, err)
		require.Len(t, records, 4)
		for _, r := range records {
			assert.True(t, r.Synced, "%s/%s", c, r.Key)
		}
	}
}

// ── SaveData ─────────────────────────────────────────────────────────────────

func TestEngine_SaveData_OnlineSendsImmediately(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)

	saved, err := env.engine.SaveData(ctx, models.CollectionSettings, []byte(`{"theme":"dark"}`),
		models.SaveOptions{Key: "theme", Category: "settings"})
	require.NoError(t, err)
	assert.True(t, saved.Synced)
	assert.False(t, saved.Offline)

	assert.Equal(t, 0, env.queueSize(t))
	assert.True(t, env.record(t, models.CollectionSettings, "theme").Synced)
}

func TestEngine_SaveData_OnlineFailureQueues(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errRemoteDown)

	saved, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"x":2}`), models.SaveOptions{Key: "k"})
	require.NoError(t, err, "remote failures are absorbed")
	assert.False(t, saved.Synced)
	assert.False(t, saved.Offline)
	assert.Equal(t, 1, env.queueSize(t))
}

func TestEngine_SaveData_SupersedesPendingEntry(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	first, err := env.engine.SaveData(ctx, models.CollectionFormulas, []byte(`{"f":"a+b"}`), models.SaveOptions{Key: "f1"})
	require.NoError(t, err)
	second, err := env.engine.SaveData(ctx, models.CollectionFormulas, []byte(`{"f":"a*b"}`), models.SaveOptions{Key: "f1"})
	require.NoError(t, err)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	queued, err := env.storages.Queue.Head(ctx, 0)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, models.OperationUpdate, queued[0].Operation)
	assert.JSONEq(t, `{"f":"a*b"}`, string(queued[0].Snapshot.Payload))

	env.monitor.SetOnline(true)
	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.QueueEntry) error {
			assert.JSONEq(t, `{"f":"a*b"}`, string(e.Snapshot.Payload))
			return nil
		}).Times(1)

	_, err = env.processor.Drain(ctx)
	require.NoError(t, err)
	assert.True(t, env.record(t, models.CollectionFormulas, "f1").Synced)
}

func TestEngine_SaveData_Validation(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	_, err := env.engine.SaveData(ctx, models.CollectionSyncQueue, []byte(`{}`), models.SaveOptions{})
	assert.ErrorIs(t, err, ErrInvalidCollection)

	_, err = env.engine.SaveData(ctx, "unknown", []byte(`{}`), models.SaveOptions{})
	assert.ErrorIs(t, err, ErrInvalidCollection)

	_, err = env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"x":`), models.SaveOptions{})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{}`), models.SaveOptions{Operation: models.OperationDelete})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	assert.Equal(t, 0, env.queueSize(t))
}

func TestEngine_SaveData_StorageFailurePropagates(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	require.NoError(t, env.storages.Close())

	_, err := env.engine.SaveData(context.Background(), models.CollectionHistory, []byte(`{}`), models.SaveOptions{})
	assert.ErrorIs(t, err, store.ErrStorageFailure)
}

// ── DeleteData ───────────────────────────────────────────────────────────────

func TestEngine_DeleteData_OfflineQueuesDelete(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"x":1}`), models.SaveOptions{Key: "h1"})
	require.NoError(t, err)
	require.NoError(t, env.engine.DeleteData(ctx, models.CollectionHistory, "h1"))

	queued, err := env.storages.Queue.Head(ctx, 0)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, models.OperationDelete, queued[0].Operation)

	_, err = env.storages.Records.Get(ctx, models.CollectionHistory, "h1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	// a pending delete is never resurrected by the read path
	_, err = env.engine.LoadData(ctx, models.CollectionHistory, models.Query{Key: "h1"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, env.engine.DeleteData(ctx, models.CollectionHistory, "h1"), ErrNotFound)
	assert.ErrorIs(t, env.engine.DeleteData(ctx, models.CollectionHistory, ""), ErrEmptyKey)
}

func TestEngine_DeleteData_OnlineSendsImmediately(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	gomock.InOrder(
		env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil),
		env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.QueueEntry) error {
				assert.Equal(t, models.OperationDelete, e.Operation)
				assert.Equal(t, "s1", e.RecordKey)
				return nil
			}),
	)

	_, err := env.engine.SaveData(ctx, models.CollectionSettings, []byte(`1`), models.SaveOptions{Key: "s1"})
	require.NoError(t, err)
	require.NoError(t, env.engine.DeleteData(ctx, models.CollectionSettings, "s1"))
	assert.Equal(t, 0, env.queueSize(t))
}

// ── LoadData ─────────────────────────────────────────────────────────────────

func TestEngine_LoadData_CacheFirstFreshServesLocal(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"x":1}`), models.SaveOptions{Key: "h"})
	require.NoError(t, err)
	env.monitor.SetOnline(true)

	// no Fetch expectation: a remote call fails the test
	records, err := env.engine.LoadData(ctx, models.CollectionHistory, models.Query{Key: "h"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"x":1}`, string(records[0].Payload))
}

func TestEngine_LoadData_CacheFirstStaleFetches(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)
	_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{"v":1}`), models.SaveOptions{Key: "h"})
	require.NoError(t, err)

	env.engine.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	remoteTS := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionHistory, "h").Return(models.RemoteRecord{
		Collection: models.CollectionHistory,
		Key:        "h",
		Payload:    json.RawMessage(`{"v":2}`),
		Timestamp:  remoteTS,
	}, nil)

	records, err := env.engine.LoadData(ctx, models.CollectionHistory, models.Query{Key: "h"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"v":2}`, string(records[0].Payload))

	stored := env.record(t, models.CollectionHistory, "h")
	assert.True(t, stored.Synced)
	assert.JSONEq(t, `{"v":2}`, string(stored.Payload))

	meta := env.record(t, models.CollectionCacheMetadata, cacheKey(models.CollectionHistory, "h"))
	assert.True(t, meta.Synced)
}

func TestEngine_LoadData_NetworkFirst(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionAppData, "state").Return(models.RemoteRecord{
		Collection: models.CollectionAppData,
		Key:        "state",
		Payload:    json.RawMessage(`{"screen":"main"}`),
		Timestamp:  time.Now().UTC(),
	}, nil)

	records, err := env.engine.LoadData(ctx, models.CollectionAppData, models.Query{Key: "state"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Synced)

	stored := env.record(t, models.CollectionAppData, "state")
	assert.JSONEq(t, `{"screen":"main"}`, string(stored.Payload))
}

func TestEngine_LoadData_NetworkFirstFallsBackToLocal(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)
	_, err := env.engine.SaveData(ctx, models.CollectionAppData, []byte(`{"n":1}`), models.SaveOptions{Key: "state"})
	require.NoError(t, err)

	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionAppData, "state").Return(models.RemoteRecord{}, errRemoteDown)

	records, err := env.engine.LoadData(ctx, models.CollectionAppData, models.Query{Key: "state"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"n":1}`, string(records[0].Payload))
}

func TestEngine_LoadData_NetworkFirstIsBounded(t *testing.T) {
	cfg := testSyncConfig()
	cfg.RemoteTimeout = 20 * time.Millisecond
	env := newTestEnv(t, true, cfg)
	ctx := context.Background()

	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionAppData, "slow").
		DoAndReturn(func(ctx context.Context, _ models.Collection, _ string) (models.RemoteRecord, error) {
			<-ctx.Done()
			return models.RemoteRecord{}, ctx.Err()
		})

	start := time.Now()
	_, err := env.engine.LoadData(ctx, models.CollectionAppData, models.Query{Key: "slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEngine_LoadData_UnsyncedLocalWins(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	_, err := env.engine.SaveData(ctx, models.CollectionAppData, []byte(`{"mine":true}`), models.SaveOptions{Key: "k"})
	require.NoError(t, err)
	env.monitor.SetOnline(true)

	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionAppData, "k").Return(models.RemoteRecord{
		Collection: models.CollectionAppData,
		Key:        "k",
		Payload:    json.RawMessage(`{"mine":false}`),
		Timestamp:  time.Now().UTC(),
	}, nil)

	records, err := env.engine.LoadData(ctx, models.CollectionAppData, models.Query{Key: "k"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"mine":true}`, string(records[0].Payload))

	stored := env.record(t, models.CollectionAppData, "k")
	assert.False(t, stored.Synced)
	assert.JSONEq(t, `{"mine":true}`, string(stored.Payload))
}

func TestEngine_LoadData_OfflineWithoutLocalFails(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())

	_, err := env.engine.LoadData(context.Background(), models.CollectionAppData, models.Query{Key: "missing"})
	assert.ErrorIs(t, err, adapter.ErrRemoteFailure)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestEngine_LoadData_RemoteNotFound(t *testing.T) {
	remote := newFakeRemote()
	env := newTestEnvWithRemote(t, true, testSyncConfig(), remote)

	_, err := env.engine.LoadData(context.Background(), models.CollectionHistory, models.Query{Key: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_LoadData_StaleWhileRevalidate(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)
	_, err := env.engine.SaveData(ctx, models.CollectionFormulas, []byte(`{"f":"old"}`), models.SaveOptions{Key: "f"})
	require.NoError(t, err)

	fetched := make(chan struct{})
	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionFormulas, "f").
		DoAndReturn(func(context.Context, models.Collection, string) (models.RemoteRecord, error) {
			defer close(fetched)
			return models.RemoteRecord{
				Collection: models.CollectionFormulas,
				Key:        "f",
				Payload:    json.RawMessage(`{"f":"new"}`),
				Timestamp:  time.Now().UTC().Add(time.Minute),
			}, nil
		})

	records, err := env.engine.LoadData(ctx, models.CollectionFormulas, models.Query{Key: "f"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"f":"old"}`, string(records[0].Payload), "the caller gets the local value at once")

	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Fatal("background refresh was not started")
	}
	// the fetch has returned; Close waits for its result to be stored
	require.NoError(t, env.engine.Close())

	assert.JSONEq(t, `{"f":"new"}`, string(env.record(t, models.CollectionFormulas, "f").Payload))
}

func TestEngine_Close_StoresRefreshFetchedDuringClose(t *testing.T) {
	env := newTestEnv(t, true, testSyncConfig())
	ctx := context.Background()

	env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)
	_, err := env.engine.SaveData(ctx, models.CollectionFormulas, []byte(`{"f":"old"}`), models.SaveOptions{Key: "f"})
	require.NoError(t, err)

	started := make(chan struct{})
	env.remote.EXPECT().Fetch(gomock.Any(), models.CollectionFormulas, "f").
		DoAndReturn(func(fetchCtx context.Context, _ models.Collection, _ string) (models.RemoteRecord, error) {
			close(started)
			// the response is already on its way when Close cancels
			<-fetchCtx.Done()
			return models.RemoteRecord{
				Collection: models.CollectionFormulas,
				Key:        "f",
				Payload:    json.RawMessage(`{"f":"new"}`),
				Timestamp:  time.Now().UTC().Add(time.Minute),
			}, nil
		})

	_, err = env.engine.LoadData(ctx, models.CollectionFormulas, models.Query{Key: "f"})
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("background refresh was not started")
	}
	require.NoError(t, env.engine.Close())

	assert.JSONEq(t, `{"f":"new"}`, string(env.record(t, models.CollectionFormulas, "f").Payload))
}

func TestEngine_LoadData_ListReadsLocal(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{}`), models.SaveOptions{Key: key, Category: "calc"})
		require.NoError(t, err)
	}

	records, err := env.engine.LoadData(ctx, models.CollectionHistory, models.Query{Limit: 2, Descending: true})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].Key)

	_, err = env.engine.LoadData(ctx, models.CollectionSyncQueue, models.Query{})
	assert.ErrorIs(t, err, ErrInvalidCollection)
}

// ── ForceSyncAll / ClearOfflineData / Close ──────────────────────────────────

func TestEngine_ForceSyncAll(t *testing.T) {
	cfg := testSyncConfig()
	cfg.BaseDelay = time.Hour
	env := newTestEnv(t, false, cfg)
	ctx := context.Background()

	_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{}`), models.SaveOptions{Key: "k"})
	require.NoError(t, err)

	_, err = env.engine.ForceSyncAll(ctx)
	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, 1, env.queueSize(t))

	env.monitor.SetOnline(true)
	gomock.InOrder(
		env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errRemoteDown),
		env.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil),
	)

	report, err := env.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	report, err = env.engine.ForceSyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Remaining)
}

func TestEngine_ClearOfflineData(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	for _, c := range models.DataCollections() {
		_, err := env.engine.SaveData(ctx, c, []byte(`{}`), models.SaveOptions{})
		require.NoError(t, err)
	}
	require.NoError(t, env.engine.ClearOfflineData(ctx))

	status, err := env.engine.GetOfflineStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.QueueSize)
	for c, stats := range status.Stores {
		assert.Zero(t, stats.Total, "collection %s", c)
	}
}

func TestEngine_Close(t *testing.T) {
	env := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	events := env.engine.Abandoned(ctx)
	require.NoError(t, env.engine.Close())
	require.NoError(t, env.engine.Close())

	_, err := env.engine.SaveData(ctx, models.CollectionHistory, []byte(`{}`), models.SaveOptions{})
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = env.engine.LoadData(ctx, models.CollectionHistory, models.Query{})
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = env.engine.ForceSyncAll(ctx)
	assert.ErrorIs(t, err, ErrEngineClosed)
	assert.ErrorIs(t, env.engine.ClearOfflineData(ctx), ErrEngineClosed)

	_, open := <-events
	assert.False(t, open, "abandoned stream ends on close")
}

func TestEngine_IsolatedInstances(t *testing.T) {
	a := newTestEnv(t, false, testSyncConfig())
	b := newTestEnv(t, false, testSyncConfig())
	ctx := context.Background()

	_, err := a.engine.SaveData(ctx, models.CollectionHistory, []byte(`{}`), models.SaveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, a.queueSize(t))
	assert.Equal(t, 0, b.queueSize(t))
}
