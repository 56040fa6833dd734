// Package server runs the transport servers: the reference remote's HTTP and
// gRPC endpoints and a device's loopback engine API.
//
// Every server is driven by a context. Cancelling it stops accepting new
// requests and waits for the ones in flight up to a grace period.
package server
