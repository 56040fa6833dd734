package server

import "context"

// Server is a transport server managed by this package. It satisfies
// [workers.Worker] so servers run next to the background jobs.
type Server interface {
	// Run serves until ctx is done and then shuts down gracefully. A nil
	// error means the shutdown was requested.
	Run(ctx context.Context) error
}
