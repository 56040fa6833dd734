package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/MKhiriev/go-offline-sync/models"
	"gopkg.in/yaml.v3"
)

type policyFile struct {
	Policies map[string]models.CachePolicy `yaml:"policies"`
}

// LoadPolicies reads a YAML policy file:
//
//	policies:
//	  history:
//	    strategy: cache-first
//	    max_age: 168h
//	  default:
//	    strategy: network-first
//
// Unknown keys are rejected.
func LoadPolicies(path string) (map[string]models.CachePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading policy file: %w", ErrConfiguration, err)
	}

	return parsePolicies(data)
}

func parsePolicies(data []byte) (map[string]models.CachePolicy, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file policyFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing policy file: %w", ErrConfiguration, err)
	}

	if file.Policies == nil {
		return map[string]models.CachePolicy{}, nil
	}
	return file.Policies, nil
}

// NewRegistryFromFile builds a registry from DefaultPolicies overlaid with
// the policies of path. An empty path yields the defaults.
func NewRegistryFromFile(path string) (*Registry, error) {
	policies := DefaultPolicies()
	if path == "" {
		return NewRegistry(policies)
	}

	loaded, err := LoadPolicies(path)
	if err != nil {
		return nil, err
	}
	maps.Copy(policies, loaded)

	return NewRegistry(policies)
}
