// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// StrategyKind selects how a cached value is read.
type StrategyKind string

const (
	// CacheFirst serves a fresh local value and falls back to the remote.
	CacheFirst StrategyKind = "cache-first"

	// NetworkFirst tries the remote with a timeout and falls back to local.
	NetworkFirst StrategyKind = "network-first"

	// StaleWhileRevalidate serves local immediately and refreshes in the
	// background.
	StaleWhileRevalidate StrategyKind = "stale-while-revalidate"
)

// Valid reports whether k is a known strategy.
func (k StrategyKind) Valid() bool {
	switch k {
	case CacheFirst, NetworkFirst, StaleWhileRevalidate:
		return true
	}
	return false
}

// CachePolicy is the per-category read policy. It is immutable once the
// registry is built.
type CachePolicy struct {
	Strategy          StrategyKind  `json:"strategy" yaml:"strategy"`
	MaxAge            time.Duration `json:"max_age" yaml:"max_age"`
	BackgroundRefresh bool          `json:"background_refresh" yaml:"background_refresh"`
}
