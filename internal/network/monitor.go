// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network tracks connectivity. The Monitor is a two-state machine
// (online, offline) fed by a Signal; it publishes every transition and
// quality change to subscribers and keeps the process-wide sync tuning
// derived from link quality.
package network

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// Signal is a source of connectivity observations.
type Signal interface {
	// Watch starts observing and returns a stream that is closed when ctx
	// ends or the source is exhausted.
	Watch(ctx context.Context) (<-chan models.ConnectivityState, error)
}

// Monitor holds the current connectivity state and sync tuning.
//
// Readers never lock: the online flag and the tuning are replaced as whole
// values. Observe calls are serialized.
type Monitor struct {
	online atomic.Bool
	state  atomic.Pointer[models.ConnectivityState]
	tuning atomic.Pointer[models.SyncTuning]

	bounds TuningBounds
	events *utils.Broadcaster[models.ConnectivityState]
	mu     sync.Mutex
	now    func() time.Time
	logger *logger.Logger
}

// NewMonitor creates a monitor in the given initial state.
func NewMonitor(bounds TuningBounds, initiallyOnline bool, log *logger.Logger) *Monitor {
	m := &Monitor{
		bounds: bounds,
		events: utils.NewBroadcaster[models.ConnectivityState](16),
		now:    time.Now,
		logger: log,
	}

	state := models.ConnectivityState{Online: initiallyOnline, Quality: models.LinkQualityUnknown, At: m.now()}
	tuning := bounds.clamp(bounds.Initial)
	m.online.Store(initiallyOnline)
	m.state.Store(&state)
	m.tuning.Store(&tuning)

	return m
}

// IsOnline reports the cached connectivity flag.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// State returns the last observed state.
func (m *Monitor) State() models.ConnectivityState {
	return *m.state.Load()
}

// Tuning returns the current sync tuning.
func (m *Monitor) Tuning() models.SyncTuning {
	return *m.tuning.Load()
}

// Subscribe returns a stream of state changes. See utils.Broadcaster for the
// stream lifetime.
func (m *Monitor) Subscribe(ctx context.Context) <-chan models.ConnectivityState {
	return m.events.Subscribe(ctx)
}

// SetOnline records a bare online/offline observation without link metadata.
func (m *Monitor) SetOnline(online bool) bool {
	return m.Observe(models.ConnectivityState{Online: online})
}

// Observe applies one observation and reports whether the state changed. A
// change of the online flag or of the link quality is published. Tuning is
// recomputed only when the observation carries link metadata.
func (m *Monitor) Observe(s models.ConnectivityState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.At.IsZero() {
		s.At = m.now()
	}
	prev := m.State()

	if s.Online && s.HasLinkMetadata() {
		if s.Quality == "" || s.Quality == models.LinkQualityUnknown {
			s.Quality = Classify(s)
		}
	} else if s.Online && s.Quality == "" {
		s.Quality = prev.Quality
	}
	if s.Quality == "" || !s.Online {
		s.Quality = models.LinkQualityUnknown
	}

	onlineChanged := prev.Online != s.Online
	qualityChanged := prev.Quality != s.Quality

	m.state.Store(&s)
	m.online.Store(s.Online)

	if s.Online && s.HasLinkMetadata() && qualityChanged {
		tuning := DeriveTuning(s.Quality, m.bounds)
		m.tuning.Store(&tuning)
	}

	if !onlineChanged && !qualityChanged {
		return false
	}

	m.logger.Info().
		Str("func", "Monitor.Observe").
		Bool("online", s.Online).
		Bool("was_online", prev.Online).
		Str("quality", string(s.Quality)).
		Int("batch_size", m.Tuning().BatchSize).
		Dur("interval", m.Tuning().Interval).
		Msg("connectivity changed")

	m.events.Publish(s)
	return true
}

// Run feeds observations from signal into the monitor until ctx ends or the
// signal stream closes.
func (m *Monitor) Run(ctx context.Context, signal Signal) error {
	states, err := signal.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-states:
			if !ok {
				return nil
			}
			m.Observe(s)
		}
	}
}

// Close ends every subscription.
func (m *Monitor) Close() {
	m.events.Close()
}
