package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	myGRPC "github.com/MKhiriev/go-offline-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
)

// healthInterval is how often the gRPC health status re-pings storage.
const healthInterval = 10 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler
	server  *grpc.Server
	address string

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, address string, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		server:  server,
		address: address,
		logger:  logger,
	}
}

func (g *grpcServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", g.address, err)
	}
	return g.serve(ctx, ln)
}

func (g *grpcServer) serve(ctx context.Context, ln net.Listener) error {
	g.logger.Info().Str("address", ln.Addr().String()).Msg("launching gRPC server")

	watchCtx, stopWatch := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.handler.Watch(watchCtx, healthInterval)
	}()
	defer func() {
		stopWatch()
		wg.Wait()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		g.logger.Warn().Str("func", "*grpcServer.serve").Msg("graceful stop timed out")
		g.server.Stop()
	}
	g.logger.Info().Msg("gRPC server stopped")
	return nil
}
