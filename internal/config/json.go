package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files. Durations
// are accepted either as strings ("30s") or as integer nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		HashKey       string   `json:"hash_key"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		DeviceID      string   `json:"device_id"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		MaxRetries             int      `json:"max_retries"`
		BaseDelay              Duration `json:"base_delay"`
		MaxDelay               Duration `json:"max_delay"`
		RemoteTimeout          Duration `json:"remote_timeout"`
		MinBatchSize           int      `json:"min_batch_size"`
		MaxBatchSize           int      `json:"max_batch_size"`
		MinInterval            Duration `json:"min_interval"`
		MaxInterval            Duration `json:"max_interval"`
		RetentionAppData       Duration `json:"retention_app_data"`
		RetentionHistory       Duration `json:"retention_history"`
		RetentionFormulas      Duration `json:"retention_formulas"`
		RetentionSettings      Duration `json:"retention_settings"`
		RetentionCacheMetadata Duration `json:"retention_cache_metadata"`
		StatusFile             string   `json:"status_file"`
		ProbeInterval          Duration `json:"probe_interval"`
		PoliciesFile           string   `json:"policies_file"`
	} `json:"sync,omitempty"`

	Workers struct {
		SyncInterval    Duration `json:"sync_interval"`
		CleanupInterval Duration `json:"cleanup_interval"`
	} `json:"workers,omitempty"`

	Log struct {
		File      string `json:"file"`
		MaxSizeMB int    `json:"max_size_mb"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	s := jsonCfg.Sync
	cfg := &StructuredConfig{
		App: App{
			HashKey:       jsonCfg.App.HashKey,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			DeviceID:      jsonCfg.App.DeviceID,
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			MaxRetries:             s.MaxRetries,
			BaseDelay:              time.Duration(s.BaseDelay),
			MaxDelay:               time.Duration(s.MaxDelay),
			RemoteTimeout:          time.Duration(s.RemoteTimeout),
			MinBatchSize:           s.MinBatchSize,
			MaxBatchSize:           s.MaxBatchSize,
			MinInterval:            time.Duration(s.MinInterval),
			MaxInterval:            time.Duration(s.MaxInterval),
			RetentionAppData:       time.Duration(s.RetentionAppData),
			RetentionHistory:       time.Duration(s.RetentionHistory),
			RetentionFormulas:      time.Duration(s.RetentionFormulas),
			RetentionSettings:      time.Duration(s.RetentionSettings),
			RetentionCacheMetadata: time.Duration(s.RetentionCacheMetadata),
			StatusFile:             s.StatusFile,
			ProbeInterval:          time.Duration(s.ProbeInterval),
			PoliciesFile:           s.PoliciesFile,
		},
		Workers: Workers{
			SyncInterval:    time.Duration(jsonCfg.Workers.SyncInterval),
			CleanupInterval: time.Duration(jsonCfg.Workers.CleanupInterval),
		},
		Log: Log{
			File:      jsonCfg.Log.File,
			MaxSizeMB: jsonCfg.Log.MaxSizeMB,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
