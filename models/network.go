// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LinkQuality is a coarse classification of the current connection.
type LinkQuality string

const (
	LinkQualityUnknown LinkQuality = "unknown"
	LinkQualitySlow    LinkQuality = "slow"
	LinkQualityMedium  LinkQuality = "medium"
	LinkQualityFast    LinkQuality = "fast"
)

// ConnectivityState is one observation of the platform connectivity signal.
type ConnectivityState struct {
	Online bool `json:"online"`

	// Quality is derived from the link metadata below when it is present.
	Quality LinkQuality `json:"quality"`

	// EffectiveType is the platform's connection class ("2g", "4g", "wifi").
	EffectiveType string `json:"effective_type,omitempty"`

	// DownlinkMbps is the bandwidth estimate, 0 when unknown.
	DownlinkMbps float64 `json:"downlink,omitempty"`

	// RTT is the round-trip estimate, 0 when unknown.
	RTT time.Duration `json:"rtt,omitempty"`

	At time.Time `json:"at"`
}

// HasLinkMetadata reports whether the observation carries link-quality data.
func (s ConnectivityState) HasLinkMetadata() bool {
	return s.EffectiveType != "" || s.DownlinkMbps > 0 || s.RTT > 0
}

// SyncTuning holds the process-wide sync parameters derived from the link
// quality. Values are replaced as a whole, never mutated in place.
type SyncTuning struct {
	BatchSize int           `json:"batch_size"`
	Interval  time.Duration `json:"interval"`
}
