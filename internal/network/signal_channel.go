package network

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

// ChannelSignal is a synthetic signal fed by the caller. Useful for tests
// and for embedding the engine in a process that already tracks
// connectivity.
type ChannelSignal struct {
	source <-chan models.ConnectivityState
}

func NewChannelSignal(source <-chan models.ConnectivityState) *ChannelSignal {
	return &ChannelSignal{source: source}
}

// Watch forwards source until it closes or ctx ends.
func (s *ChannelSignal) Watch(ctx context.Context) (<-chan models.ConnectivityState, error) {
	out := make(chan models.ConnectivityState)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case state, ok := <-s.source:
				if !ok {
					return
				}
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
