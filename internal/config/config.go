// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client daemon and the reference server. It is populated by merging values
// from environment variables, command-line flags, an optional JSON file and
// finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds keys and identity settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses for the HTTP and gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote endpoint settings used by the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the sync engine tuning.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds background job intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level keys and identity.
type App struct {
	// HashKey keys the content hash sent with every remote operation.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// TokenSignKey signs and verifies device JWTs.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of device JWTs.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of a device JWT.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// DeviceID identifies this client to the remote. Generated when empty.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// Version is the semantic version of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the database settings.
type Storage struct {
	// DB holds the connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings. For the client it is the SQLite file path,
// for the server the PostgreSQL DSN.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP server listens on. For the
	// client it serves the local engine API.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the "host:port" of the gRPC health server.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the remote endpoint settings used by the client.
type Adapter struct {
	// HTTPAddress is the base URL of the remote record API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the sync engine tuning.
type Sync struct {
	// MaxRetries is the retry ceiling of a queue entry.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// BaseDelay is the first backoff delay; attempt n waits BaseDelay*2^(n-1).
	// Env: SYNC_BASE_DELAY
	BaseDelay time.Duration `env:"BASE_DELAY"`

	// MaxDelay caps the backoff delay.
	// Env: SYNC_MAX_DELAY
	MaxDelay time.Duration `env:"MAX_DELAY"`

	// RemoteTimeout bounds a single remote operation.
	// Env: SYNC_REMOTE_TIMEOUT
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT"`

	// MinBatchSize and MaxBatchSize bound the drain batch size.
	// Env: SYNC_MIN_BATCH_SIZE, SYNC_MAX_BATCH_SIZE
	MinBatchSize int `env:"MIN_BATCH_SIZE"`
	MaxBatchSize int `env:"MAX_BATCH_SIZE"`

	// MinInterval and MaxInterval bound the sync scheduler interval.
	// Env: SYNC_MIN_INTERVAL, SYNC_MAX_INTERVAL
	MinInterval time.Duration `env:"MIN_INTERVAL"`
	MaxInterval time.Duration `env:"MAX_INTERVAL"`

	// Retention windows per collection. Zero disables cleanup for it.
	// Env: SYNC_RETENTION_APP_DATA, SYNC_RETENTION_HISTORY, ...
	RetentionAppData       time.Duration `env:"RETENTION_APP_DATA"`
	RetentionHistory       time.Duration `env:"RETENTION_HISTORY"`
	RetentionFormulas      time.Duration `env:"RETENTION_FORMULAS"`
	RetentionSettings      time.Duration `env:"RETENTION_SETTINGS"`
	RetentionCacheMetadata time.Duration `env:"RETENTION_CACHE_METADATA"`

	// StatusFile is the connectivity status file watched for changes.
	// Empty disables the file signal.
	// Env: SYNC_STATUS_FILE
	StatusFile string `env:"STATUS_FILE"`

	// ProbeInterval is how often the remote is pinged when no status file
	// is configured.
	// Env: SYNC_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// PoliciesFile is an optional YAML file with cache policies.
	// Env: SYNC_POLICIES_FILE
	PoliciesFile string `env:"POLICIES_FILE"`
}

// Workers holds background job intervals.
type Workers struct {
	// SyncInterval is the initial sync scheduler interval before any link
	// quality is observed.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// CleanupInterval is the fixed cleanup scheduler interval.
	// Env: WORKERS_CLEANUP_INTERVAL
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// Log holds log output settings.
type Log struct {
	// File is the client log file path.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// MaxSizeMB is the rotation size of the client log file.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
