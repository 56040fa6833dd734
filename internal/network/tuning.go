package network

import (
	"strings"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

// TuningBounds are the limits sync tuning is derived within.
type TuningBounds struct {
	MinBatchSize int
	MaxBatchSize int
	MinInterval  time.Duration
	MaxInterval  time.Duration

	// Initial is the tuning used before any link quality is observed.
	Initial models.SyncTuning
}

// DefaultBounds returns the reference bounds: batch size in [5, 20] and
// interval in [15s, 60s].
func DefaultBounds() TuningBounds {
	return TuningBounds{
		MinBatchSize: 5,
		MaxBatchSize: 20,
		MinInterval:  15 * time.Second,
		MaxInterval:  60 * time.Second,
		Initial:      models.SyncTuning{BatchSize: 10, Interval: 30 * time.Second},
	}
}

// DeriveTuning maps link quality onto bounds. Poorer links get smaller
// batches and wider intervals.
func DeriveTuning(quality models.LinkQuality, bounds TuningBounds) models.SyncTuning {
	switch quality {
	case models.LinkQualitySlow:
		return models.SyncTuning{BatchSize: bounds.MinBatchSize, Interval: bounds.MaxInterval}
	case models.LinkQualityMedium:
		return models.SyncTuning{
			BatchSize: (bounds.MinBatchSize + bounds.MaxBatchSize) / 2,
			Interval:  (bounds.MinInterval + bounds.MaxInterval) / 2,
		}
	case models.LinkQualityFast:
		return models.SyncTuning{BatchSize: bounds.MaxBatchSize, Interval: bounds.MinInterval}
	}
	return bounds.clamp(bounds.Initial)
}

func (b TuningBounds) clamp(t models.SyncTuning) models.SyncTuning {
	t.BatchSize = min(max(t.BatchSize, b.MinBatchSize), b.MaxBatchSize)
	t.Interval = min(max(t.Interval, b.MinInterval), b.MaxInterval)
	return t
}

const (
	fastRTT    = 150 * time.Millisecond
	mediumRTT  = 500 * time.Millisecond
	fastMbps   = 5.0
	mediumMbps = 1.0
)

// Classify derives the link quality of s. The effective type wins when it is
// known; otherwise the worse of the RTT and bandwidth classes is used.
func Classify(s models.ConnectivityState) models.LinkQuality {
	if !s.Online {
		return models.LinkQualityUnknown
	}

	switch strings.ToLower(s.EffectiveType) {
	case "slow-2g", "2g":
		return models.LinkQualitySlow
	case "3g":
		return models.LinkQualityMedium
	case "4g", "5g", "wifi", "ethernet":
		return models.LinkQualityFast
	}

	quality := models.LinkQualityUnknown
	if s.RTT > 0 {
		quality = worse(quality, classifyRTT(s.RTT))
	}
	if s.DownlinkMbps > 0 {
		quality = worse(quality, classifyDownlink(s.DownlinkMbps))
	}
	return quality
}

func classifyRTT(rtt time.Duration) models.LinkQuality {
	switch {
	case rtt < fastRTT:
		return models.LinkQualityFast
	case rtt < mediumRTT:
		return models.LinkQualityMedium
	}
	return models.LinkQualitySlow
}

func classifyDownlink(mbps float64) models.LinkQuality {
	switch {
	case mbps >= fastMbps:
		return models.LinkQualityFast
	case mbps >= mediumMbps:
		return models.LinkQualityMedium
	}
	return models.LinkQualitySlow
}

func rank(q models.LinkQuality) int {
	switch q {
	case models.LinkQualitySlow:
		return 1
	case models.LinkQualityMedium:
		return 2
	case models.LinkQualityFast:
		return 3
	}
	return 0
}

// worse returns the poorer known quality; unknown yields to anything known.
func worse(a, b models.LinkQuality) models.LinkQuality {
	switch {
	case rank(a) == 0:
		return b
	case rank(b) == 0:
		return a
	case rank(a) < rank(b):
		return a
	}
	return b
}
