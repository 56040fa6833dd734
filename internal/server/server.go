package server

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/handler"
	myHTTP "github.com/MKhiriev/go-offline-sync/internal/handler/http"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
)

type server struct {
	servers *workers.Workers
}

// NewServer builds the reference remote's servers for every handler that
// was created. It fails when there is nothing to serve.
func NewServer(handlers *handler.Handlers, cfg config.ServerConfig, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := workers.New()
	created := 0

	if handlers.HTTP != nil && cfg.HTTPAddress != "" {
		servers.Add(newHTTPServer(handlers.HTTP.Init(), cfg.HTTPAddress, cfg.RequestTimeout, logger))
		created++
	}
	if handlers.GRPC != nil && cfg.GRPCAddress != "" {
		servers.Add(newGRPCServer(handlers.GRPC, cfg.GRPCAddress, logger))
		created++
	}

	if created == 0 {
		return nil, errNoServersAreCreated
	}

	return &server{servers: servers}, nil
}

// NewLocalServer serves engine on address for applications on the same
// device. The listener carries no authentication, so address should be a
// loopback one.
func NewLocalServer(engine service.Engine, address string, logger *logger.Logger) Server {
	return newHTTPServer(myHTTP.NewLocalHandler(engine, logger).InitLocal(), address, 0, logger)
}

// Run runs every server until ctx is done. The first server failure stops
// the others.
func (s *server) Run(ctx context.Context) error {
	return s.servers.Run(ctx)
}
