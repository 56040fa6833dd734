package http

import (
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/service"
)

// Handler serves one of two routers: the reference remote's record API
// ([Handler.Init]) or a device's local engine API ([Handler.InitLocal]).
type Handler struct {
	services *service.Services
	engine   service.Engine

	logger *logger.Logger
}

// NewHandler builds the handler of the reference remote.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// NewLocalHandler builds the handler exposing engine to local applications.
func NewLocalHandler(engine service.Engine, logger *logger.Logger) *Handler {
	logger.Info().Msg("local http handler created")
	return &Handler{
		engine: engine,
		logger: logger,
	}
}
