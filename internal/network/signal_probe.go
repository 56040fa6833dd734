package network

import (
	"context"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

// Pinger reaches the remote and reports the round-trip time.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// ProbeSignal pings the remote on a fixed interval. A successful ping means
// online, with quality derived from the measured RTT.
type ProbeSignal struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
}

func NewProbeSignal(pinger Pinger, interval, timeout time.Duration, log *logger.Logger) *ProbeSignal {
	return &ProbeSignal{
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		logger:   log,
	}
}

// Watch probes immediately and then on every tick.
func (p *ProbeSignal) Watch(ctx context.Context) (<-chan models.ConnectivityState, error) {
	out := make(chan models.ConnectivityState)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case out <- p.probe(ctx):
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out, nil
}

func (p *ProbeSignal) probe(ctx context.Context) models.ConnectivityState {
	probeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	rtt, err := p.pinger.Ping(probeCtx)
	if err != nil {
		p.logger.Debug().Err(err).Str("func", "ProbeSignal.probe").Msg("remote unreachable")
		return models.ConnectivityState{Online: false, At: time.Now()}
	}

	// at least 1ns so the observation counts as link metadata
	return models.ConnectivityState{Online: true, RTT: max(rtt, time.Nanosecond), At: time.Now()}
}
