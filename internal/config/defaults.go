// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults returns the reference configuration. It is merged last, so it only
// fills fields that no other source set.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-offline-sync",
			TokenDuration: time.Hour,
			Version:       "dev",
		},
		Storage: Storage{
			DB: DB{DSN: "offline-sync.db"},
		},
		Server: Server{
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			RequestTimeout: 10 * time.Second,
		},
		Sync: Sync{
			MaxRetries:             3,
			BaseDelay:              time.Second,
			MaxDelay:               5 * time.Minute,
			RemoteTimeout:          5 * time.Second,
			MinBatchSize:           5,
			MaxBatchSize:           20,
			MinInterval:            15 * time.Second,
			MaxInterval:            60 * time.Second,
			RetentionAppData:       30 * 24 * time.Hour,
			RetentionHistory:       7 * 24 * time.Hour,
			RetentionFormulas:      365 * 24 * time.Hour,
			RetentionCacheMetadata: 24 * time.Hour,
			ProbeInterval:          15 * time.Second,
		},
		Workers: Workers{
			SyncInterval:    30 * time.Second,
			CleanupInterval: time.Hour,
		},
		Log: Log{
			MaxSizeMB: 10,
		},
	}
}
