package network

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	fail atomic.Bool
	rtt  time.Duration
}

func (p *fakePinger) Ping(ctx context.Context) (time.Duration, error) {
	if p.fail.Load() {
		return 0, errors.New("unreachable")
	}
	return p.rtt, nil
}

func waitForState(t *testing.T, states <-chan models.ConnectivityState, match func(models.ConnectivityState) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-states:
			require.True(t, ok, "stream closed")
			if match(s) {
				return
			}
		case <-deadline:
			t.Fatal("expected state not observed")
		}
	}
}

func TestProbeSignal(t *testing.T) {
	pinger := &fakePinger{rtt: 20 * time.Millisecond}
	signal := NewProbeSignal(pinger, 10*time.Millisecond, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, err := signal.Watch(ctx)
	require.NoError(t, err)

	first := receive(t, states)
	assert.True(t, first.Online)
	assert.Equal(t, models.LinkQualityFast, Classify(first))

	pinger.fail.Store(true)
	waitForState(t, states, func(s models.ConnectivityState) bool { return !s.Online })

	cancel()
	for range states {
	}
}

func TestProbeSignal_ZeroRTTCountsAsMetadata(t *testing.T) {
	signal := NewProbeSignal(&fakePinger{}, time.Hour, 0, logger.Nop())
	state := signal.probe(context.Background())

	assert.True(t, state.Online)
	assert.True(t, state.HasLinkMetadata())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.ConnectivityState
		wantErr bool
	}{
		{"online word", "online\n", models.ConnectivityState{Online: true}, false},
		{"offline word", " OFFLINE ", models.ConnectivityState{Online: false}, false},
		{"json", `{"online":true,"effective_type":"4g","downlink":10,"rtt_ms":50}`,
			models.ConnectivityState{Online: true, EffectiveType: "4g", DownlinkMbps: 10, RTT: 50 * time.Millisecond}, false},
		{"json offline", `{"online":false}`, models.ConnectivityState{}, false},
		{"garbage", "maybe", models.ConnectivityState{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status")
	require.NoError(t, os.WriteFile(path, []byte("offline"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, err := NewFileSignal(path, logger.Nop()).Watch(ctx)
	require.NoError(t, err)

	assert.False(t, receive(t, states).Online, "initial content is emitted")

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(`{"online":true,"effective_type":"3g"}`), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	waitForState(t, states, func(s models.ConnectivityState) bool {
		return s.Online && s.EffectiveType == "3g"
	})
}

func TestFileSignal_MissingDirectory(t *testing.T) {
	_, err := NewFileSignal(filepath.Join(t.TempDir(), "nope", "status"), logger.Nop()).Watch(context.Background())
	assert.Error(t, err)
}

func TestFileSignal_DrivesMonitor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status")
	m := newTestMonitor(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx, NewFileSignal(path, logger.Nop())) }()

	// give the watcher time to register before the file appears
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("online"), 0o600))

	assert.Eventually(t, m.IsOnline, 2*time.Second, 5*time.Millisecond)
}
