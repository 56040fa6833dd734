package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/cache"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/network"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

var errRemoteDown = fmt.Errorf("%w: %w", adapter.ErrRemoteFailure, adapter.ErrUnavailable)

func testSyncConfig() config.Sync {
	return config.Sync{
		MaxRetries:       3,
		RemoteTimeout:    time.Second,
		RetentionHistory: 7 * 24 * time.Hour,
		RetentionAppData: 30 * 24 * time.Hour,
	}
}

// testClock is a settable clock shared by the processor under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	storages  *store.ClientStorages
	remote    *mock.MockRemoteAdapter
	monitor   *network.Monitor
	processor *syncProcessor
	cleanup   *cleanupService
	engine    *engine
}

func newTestEnv(t *testing.T, online bool, cfg config.Sync) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	return newTestEnvWithRemote(t, online, cfg, mock.NewMockRemoteAdapter(ctrl))
}

func newTestEnvWithRemote(t *testing.T, online bool, cfg config.Sync, remote adapter.RemoteAdapter) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "local.db")
	storages, err := store.NewClientStorages(context.Background(), config.Storage{DB: config.DB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)

	registry, err := cache.NewRegistry(cache.DefaultPolicies())
	require.NoError(t, err)

	monitor := network.NewMonitor(network.DefaultBounds(), online, logger.Nop())
	processor := newSyncProcessor(storages.Records, storages.Queue, remote, monitor, utils.NewSequenceGenerator("id"), cfg, logger.Nop())
	cleanup := newCleanupService(storages.Records, storages.Queue, processor, cfg.Retention(), logger.Nop())
	eng := newEngine(storages.Records, storages.Queue, storages, processor, registry, logger.Nop())

	t.Cleanup(func() {
		_ = eng.Close()
		monitor.Close()
		_ = storages.Close()
	})

	env := &testEnv{
		storages:  storages,
		processor: processor,
		cleanup:   cleanup,
		engine:    eng,
		monitor:   monitor,
	}
	if m, ok := remote.(*mock.MockRemoteAdapter); ok {
		env.remote = m
	}
	return env
}

// putAndEnqueue stores an unsynced record and queues its snapshot. The
// returned entry carries the identity it was queued under.
func (e *testEnv) putAndEnqueue(t *testing.T, collection models.Collection, key string, priority models.Priority) models.QueueEntry {
	t.Helper()
	ctx := context.Background()

	record := models.Record{
		Collection: collection,
		Key:        key,
		Payload:    json.RawMessage(`{"key":"` + key + `"}`),
		Timestamp:  time.Now().UTC(),
		Offline:    true,
	}
	require.NoError(t, e.storages.Records.Put(ctx, record))

	entry := models.QueueEntry{
		ID:         e.processor.ids.Generate(),
		Operation:  models.OperationCreate,
		Collection: collection,
		RecordKey:  key,
		Snapshot:   record,
		Priority:   priority,
	}
	require.NoError(t, e.processor.Enqueue(ctx, entry))
	return entry
}

func (e *testEnv) queueSize(t *testing.T) int {
	t.Helper()
	n, err := e.storages.Queue.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (e *testEnv) record(t *testing.T, collection models.Collection, key string) models.Record {
	t.Helper()
	r, err := e.storages.Records.Get(context.Background(), collection, key)
	require.NoError(t, err)
	return r
}

// fakeRemote is an idempotent in-memory remote: an idempotency key is applied
// once, repeats are acknowledged without effect.
type fakeRemote struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	records map[string]models.RemoteRecord
	effects int
	calls   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		seen:    make(map[string]struct{}),
		records: make(map[string]models.RemoteRecord),
	}
}

func (f *fakeRemote) Apply(_ context.Context, entry models.QueueEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if _, ok := f.seen[entry.ID]; ok {
		return nil
	}
	f.seen[entry.ID] = struct{}{}
	f.effects++

	id := cacheKey(entry.Collection, entry.RecordKey)
	if entry.Operation == models.OperationDelete {
		delete(f.records, id)
		return nil
	}
	f.records[id] = models.RemoteRecord{
		Collection: entry.Collection,
		Key:        entry.RecordKey,
		Payload:    entry.Snapshot.Payload,
		Category:   entry.Snapshot.Category,
		Timestamp:  entry.Snapshot.Timestamp,
	}
	return nil
}

func (f *fakeRemote) Fetch(_ context.Context, collection models.Collection, key string) (models.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[cacheKey(collection, key)]
	if !ok {
		return models.RemoteRecord{}, fmt.Errorf("%w: %w", adapter.ErrRemoteFailure, adapter.ErrNotFound)
	}
	return r, nil
}

func (f *fakeRemote) Ping(context.Context) (time.Duration, error) {
	return time.Millisecond, nil
}

func (f *fakeRemote) counts() (calls, effects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.effects
}
