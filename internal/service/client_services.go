package service

import (
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
)

// ClientServices is one isolated engine instance with its background jobs.
// Several instances may coexist, each over its own storages.
type ClientServices struct {
	Engine    Engine
	Processor SyncProcessor
	Cleanup   CleanupService

	// Jobs holds the sync, connectivity, cleanup and abandoned-event
	// workers. The caller runs them.
	Jobs *workers.Workers
}

// NewClientServices wires the engine over storages. Nothing runs until the
// caller starts Jobs; Engine.Close releases the engine's own background work.
func NewClientServices(
	storages *store.ClientStorages,
	remote adapter.RemoteAdapter,
	monitor ConnectivityMonitor,
	registry PolicyRegistry,
	cfg config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	processor := newSyncProcessor(
		storages.Records,
		storages.Queue,
		remote,
		monitor,
		utils.NewUUIDGenerator(),
		cfg.Sync,
		logger.WithComponent("sync"),
	)
	cleanup := newCleanupService(
		storages.Records,
		storages.Queue,
		processor,
		cfg.Sync.Retention(),
		logger.WithComponent("cleanup"),
	)
	engine := newEngine(
		storages.Records,
		storages.Queue,
		storages,
		processor,
		registry,
		logger.WithComponent("engine"),
	)

	return &ClientServices{
		Engine:    engine,
		Processor: processor,
		Cleanup:   cleanup,
		Jobs: workers.New(
			NewSyncJob(processor, monitor, logger.WithComponent("sync-job")),
			NewConnectivityJob(processor, monitor, logger.WithComponent("connectivity-job")),
			NewCleanupJob(cleanup, cleanupInterval(cfg.Workers), logger.WithComponent("cleanup-job")),
			NewAbandonedJob(processor, logger.WithComponent("abandoned-job")),
		),
	}
}

func cleanupInterval(cfg config.Workers) time.Duration {
	if cfg.CleanupInterval > 0 {
		return cfg.CleanupInterval
	}
	return time.Hour
}
