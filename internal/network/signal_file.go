package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/fsnotify/fsnotify"
)

// ErrInvalidStatus is returned when a status file cannot be parsed.
var ErrInvalidStatus = errors.New("invalid connectivity status")

// FileSignal watches a status file written by the platform, for example a
// network manager dispatcher hook. The file holds either the bare word
// "online" or "offline", or JSON:
//
//	{"online":true,"effective_type":"4g","downlink":10,"rtt_ms":50}
//
// The parent directory is watched so that atomic replace-by-rename is seen.
type FileSignal struct {
	path   string
	logger *logger.Logger
}

func NewFileSignal(path string, log *logger.Logger) *FileSignal {
	return &FileSignal{path: filepath.Clean(path), logger: log}
}

type statusFile struct {
	Online        bool    `json:"online"`
	EffectiveType string  `json:"effective_type"`
	Downlink      float64 `json:"downlink"`
	RTTMillis     int64   `json:"rtt_ms"`
}

// ParseStatus parses the content of a status file.
func ParseStatus(data []byte) (models.ConnectivityState, error) {
	text := strings.TrimSpace(string(data))

	switch strings.ToLower(text) {
	case "online", "up", "1", "true":
		return models.ConnectivityState{Online: true}, nil
	case "offline", "down", "0", "false":
		return models.ConnectivityState{Online: false}, nil
	}

	var status statusFile
	if err := json.Unmarshal([]byte(text), &status); err != nil {
		return models.ConnectivityState{}, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}

	return models.ConnectivityState{
		Online:        status.Online,
		EffectiveType: status.EffectiveType,
		DownlinkMbps:  status.Downlink,
		RTT:           time.Duration(status.RTTMillis) * time.Millisecond,
	}, nil
}

// Watch emits the current content of the file, if any, and then every
// change.
func (f *FileSignal) Watch(ctx context.Context) (<-chan models.ConnectivityState, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err = watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch status directory %s: %w", dir, err)
	}

	out := make(chan models.ConnectivityState)

	go func() {
		defer close(out)
		defer watcher.Close()

		emit := func() bool {
			state, ok := f.read()
			if !ok {
				return true
			}
			select {
			case out <- state:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != f.path {
					continue
				}
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					continue
				}
				if !emit() {
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Err(err).Str("func", "FileSignal.Watch").Msg("status file watcher error")
			}
		}
	}()

	return out, nil
}

func (f *FileSignal) read() (models.ConnectivityState, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Err(err).Str("func", "FileSignal.read").Str("path", f.path).Msg("error reading status file")
		}
		return models.ConnectivityState{}, false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		// writer truncated the file and has not written yet
		return models.ConnectivityState{}, false
	}

	state, err := ParseStatus(data)
	if err != nil {
		f.logger.Err(err).Str("func", "FileSignal.read").Str("path", f.path).Msg("error parsing status file")
		return models.ConnectivityState{}, false
	}
	state.At = time.Now()
	return state, true
}
