// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] is internally
// consistent. Only fields that are set are checked; role-specific
// requirements live on [ClientConfig] and [ServerConfig].
func (cfg *StructuredConfig) validate() error {
	s := cfg.Sync
	if s.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries is negative", ErrInvalidSyncConfigs)
	}
	if s.MinBatchSize > 0 && s.MaxBatchSize > 0 && s.MinBatchSize > s.MaxBatchSize {
		return fmt.Errorf("%w: min batch size exceeds max batch size", ErrInvalidSyncConfigs)
	}
	if s.MinInterval > 0 && s.MaxInterval > 0 && s.MinInterval > s.MaxInterval {
		return fmt.Errorf("%w: min interval exceeds max interval", ErrInvalidSyncConfigs)
	}
	if s.BaseDelay > 0 && s.MaxDelay > 0 && s.BaseDelay > s.MaxDelay {
		return fmt.Errorf("%w: base delay exceeds max delay", ErrInvalidSyncConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 || cfg.Workers.CleanupInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.HashKey == "" || cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	s := cfg.Sync
	if s.MaxRetries < 1 || s.MinBatchSize < 1 || s.MaxBatchSize < s.MinBatchSize {
		return ErrInvalidSyncConfigs
	}
	if s.MinInterval <= 0 || s.MaxInterval < s.MinInterval || s.RemoteTimeout <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.HashKey == "" || cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
