package network

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveTuning(t *testing.T) {
	bounds := DefaultBounds()

	tests := []struct {
		quality models.LinkQuality
		want    models.SyncTuning
	}{
		{models.LinkQualitySlow, models.SyncTuning{BatchSize: 5, Interval: 60 * time.Second}},
		{models.LinkQualityMedium, models.SyncTuning{BatchSize: 12, Interval: 37500 * time.Millisecond}},
		{models.LinkQualityFast, models.SyncTuning{BatchSize: 20, Interval: 15 * time.Second}},
		{models.LinkQualityUnknown, models.SyncTuning{BatchSize: 10, Interval: 30 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTuning(tt.quality, bounds))
		})
	}
}

func TestDeriveTuning_PoorerLinkNeverFaster(t *testing.T) {
	bounds := DefaultBounds()
	slow := DeriveTuning(models.LinkQualitySlow, bounds)
	medium := DeriveTuning(models.LinkQualityMedium, bounds)
	fast := DeriveTuning(models.LinkQualityFast, bounds)

	assert.LessOrEqual(t, slow.BatchSize, medium.BatchSize)
	assert.LessOrEqual(t, medium.BatchSize, fast.BatchSize)
	assert.GreaterOrEqual(t, slow.Interval, medium.Interval)
	assert.GreaterOrEqual(t, medium.Interval, fast.Interval)
}

func TestDeriveTuning_UnknownClampsInitial(t *testing.T) {
	bounds := DefaultBounds()
	bounds.Initial = models.SyncTuning{BatchSize: 100, Interval: time.Second}

	assert.Equal(t, models.SyncTuning{BatchSize: 20, Interval: 15 * time.Second}, DeriveTuning(models.LinkQualityUnknown, bounds))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		state models.ConnectivityState
		want  models.LinkQuality
	}{
		{"offline", models.ConnectivityState{Online: false, EffectiveType: "4g"}, models.LinkQualityUnknown},
		{"2g", models.ConnectivityState{Online: true, EffectiveType: "2g"}, models.LinkQualitySlow},
		{"slow-2g", models.ConnectivityState{Online: true, EffectiveType: "slow-2g"}, models.LinkQualitySlow},
		{"3g", models.ConnectivityState{Online: true, EffectiveType: "3G"}, models.LinkQualityMedium},
		{"wifi", models.ConnectivityState{Online: true, EffectiveType: "wifi"}, models.LinkQualityFast},
		{"fast rtt", models.ConnectivityState{Online: true, RTT: 40 * time.Millisecond}, models.LinkQualityFast},
		{"medium rtt", models.ConnectivityState{Online: true, RTT: 300 * time.Millisecond}, models.LinkQualityMedium},
		{"slow rtt", models.ConnectivityState{Online: true, RTT: time.Second}, models.LinkQualitySlow},
		{"low bandwidth", models.ConnectivityState{Online: true, DownlinkMbps: 0.5}, models.LinkQualitySlow},
		{"worse of rtt and bandwidth", models.ConnectivityState{Online: true, RTT: 40 * time.Millisecond, DownlinkMbps: 2}, models.LinkQualityMedium},
		{"no metadata", models.ConnectivityState{Online: true}, models.LinkQualityUnknown},
		{"unrecognised type falls back to rtt", models.ConnectivityState{Online: true, EffectiveType: "bluetooth", RTT: time.Second}, models.LinkQualitySlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.state))
		})
	}
}
