package config

import (
	"fmt"
	"time"
)

// ClientConfig is the top-level client daemon configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains keys and device identity.
	App App
	// Adapter contains the remote endpoint address and timeout.
	Adapter Adapter
	// Storage contains the SQLite file location.
	Storage Storage
	// Sync contains retry, batching and retention tuning.
	Sync Sync
	// Workers contains scheduler intervals.
	Workers Workers
	// Log contains the rotated log file settings.
	Log Log
	// LocalAPIAddress is where the local engine API listens. Empty disables it.
	LocalAPIAddress string
}

// ServerConfig is the reference remote server configuration.
type ServerConfig struct {
	App            App
	Storage        Storage
	HTTPAddress    string
	GRPCAddress    string
	RequestTimeout time.Duration
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps a merged structured config onto the client view.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App:             cfg.App,
		Adapter:         cfg.Adapter,
		Storage:         cfg.Storage,
		Sync:            cfg.Sync,
		Workers:         cfg.Workers,
		Log:             cfg.Log,
		LocalAPIAddress: cfg.Server.HTTPAddress,
	}
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:            cfg.App,
		Storage:        cfg.Storage,
		HTTPAddress:    cfg.Server.HTTPAddress,
		GRPCAddress:    cfg.Server.GRPCAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	return serverCfg, serverCfg.validate()
}

// Retention returns the configured retention window of every data
// collection keyed by collection name.
func (s Sync) Retention() map[string]time.Duration {
	return map[string]time.Duration{
		"app_data":       s.RetentionAppData,
		"history":        s.RetentionHistory,
		"user_formulas":  s.RetentionFormulas,
		"settings":       s.RetentionSettings,
		"cache_metadata": s.RetentionCacheMetadata,
	}
}
