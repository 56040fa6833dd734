package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/cache"
	"github.com/MKhiriev/go-offline-sync/internal/client"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/network"
	"github.com/MKhiriev/go-offline-sync/internal/server"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("offline-sync-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("offline-sync-client", logger.FileOptions{
		Path:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	remote, err := adapter.NewHTTPRemoteAdapter(cfg.Adapter, cfg.App, log.WithComponent("adapter"))
	if err != nil {
		log.Fatal().Err(err).Msg("create remote adapter")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log.WithComponent("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	registry, err := newRegistry(cfg.Sync.PoliciesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load cache policies")
	}

	monitor := network.NewMonitor(network.DefaultBounds(), false, log.WithComponent("network"))

	var signalSource network.Signal
	if cfg.Sync.StatusFile != "" {
		signalSource = network.NewFileSignal(cfg.Sync.StatusFile, log.WithComponent("status-file"))
	} else {
		signalSource = network.NewProbeSignal(remote, cfg.Sync.ProbeInterval, cfg.Adapter.RequestTimeout, log.WithComponent("probe"))
	}

	services := service.NewClientServices(storages, remote, monitor, registry, *cfg, log)

	var extra []workers.Worker
	if cfg.LocalAPIAddress != "" {
		extra = append(extra, server.NewLocalServer(services.Engine, cfg.LocalAPIAddress, log.WithComponent("local-api")))
	}

	app, err := client.NewApp(services, monitor, signalSource, log, extra...)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func newRegistry(policiesFile string) (*cache.Registry, error) {
	if policiesFile != "" {
		return cache.NewRegistryFromFile(policiesFile)
	}
	return cache.NewRegistry(cache.DefaultPolicies())
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
