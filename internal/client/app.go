package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/network"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
)

// App is one running engine instance together with the workers that feed
// it connectivity and drain its queue.
type App struct {
	services *service.ClientServices
	monitor  *network.Monitor
	signal   network.Signal

	logger *logger.Logger
}

// NewApp registers the monitor feed and every extra worker (the local API
// server, for one) next to the engine's own jobs.
func NewApp(services *service.ClientServices, monitor *network.Monitor, signal network.Signal, logger *logger.Logger, extra ...workers.Worker) (*App, error) {
	if services == nil || monitor == nil || signal == nil {
		return nil, errors.New("client app: services, monitor and signal are required")
	}

	a := &App{
		services: services,
		monitor:  monitor,
		signal:   signal,
		logger:   logger,
	}

	services.Jobs.Add(workers.Func(a.watchConnectivity))
	for _, w := range extra {
		services.Jobs.Add(w)
	}
	return a, nil
}

// Run blocks until ctx is done or a worker fails. The engine is closed on
// the way out.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("client started")

	runErr := a.services.Jobs.Run(ctx)
	closeErr := a.services.Engine.Close()
	a.monitor.Close()

	if runErr != nil {
		return fmt.Errorf("client workers: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close engine: %w", closeErr)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

func (a *App) watchConnectivity(ctx context.Context) error {
	if err := a.monitor.Run(ctx, a.signal); err != nil {
		a.logger.Err(err).Str("func", "*App.watchConnectivity").Msg("connectivity signal failed")
		return err
	}
	return nil
}
