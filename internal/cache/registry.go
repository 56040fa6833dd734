// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache holds the cache strategy registry: a static mapping from
// data category to read policy, and the pure decision function the engine's
// read path consults. The package performs no I/O apart from loading the
// optional policy file at startup.
package cache

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

// DefaultCategory is the key of the policy applied to unknown categories.
const DefaultCategory = "default"

// Registry maps categories to cache policies. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	policies map[string]models.CachePolicy
	fallback models.CachePolicy
}

// DefaultPolicies returns the reference policy table.
func DefaultPolicies() map[string]models.CachePolicy {
	return map[string]models.CachePolicy{
		DefaultCategory: {
			Strategy: models.NetworkFirst,
		},
		string(models.CollectionAppData): {
			Strategy: models.NetworkFirst,
			MaxAge:   24 * time.Hour,
		},
		string(models.CollectionHistory): {
			Strategy: models.CacheFirst,
			MaxAge:   7 * 24 * time.Hour,
		},
		string(models.CollectionFormulas): {
			Strategy:          models.StaleWhileRevalidate,
			MaxAge:            30 * 24 * time.Hour,
			BackgroundRefresh: true,
		},
		string(models.CollectionSettings): {
			Strategy: models.CacheFirst,
			MaxAge:   365 * 24 * time.Hour,
		},
		string(models.CollectionCacheMetadata): {
			Strategy: models.CacheFirst,
			MaxAge:   time.Hour,
		},
	}
}

// NewRegistry validates policies and builds a registry. The DefaultCategory
// entry, when present, replaces the built-in fallback.
func NewRegistry(policies map[string]models.CachePolicy) (*Registry, error) {
	r := &Registry{
		policies: make(map[string]models.CachePolicy, len(policies)),
		fallback: models.CachePolicy{Strategy: models.NetworkFirst},
	}

	for category, policy := range policies {
		if err := validatePolicy(category, policy); err != nil {
			return nil, err
		}
		if category == DefaultCategory {
			r.fallback = policy
			continue
		}
		r.policies[category] = policy
	}

	return r, nil
}

func validatePolicy(category string, policy models.CachePolicy) error {
	if category == "" {
		return fmt.Errorf("%w: empty category", ErrConfiguration)
	}
	if !policy.Strategy.Valid() {
		return fmt.Errorf("%w: category %q: unknown strategy %q", ErrConfiguration, category, policy.Strategy)
	}
	if policy.MaxAge < 0 {
		return fmt.Errorf("%w: category %q: negative max age %s", ErrConfiguration, category, policy.MaxAge)
	}
	return nil
}

// Policy returns the policy of category, or the fallback policy when the
// category is not configured.
func (r *Registry) Policy(category string) models.CachePolicy {
	if policy, ok := r.policies[category]; ok {
		return policy
	}
	return r.fallback
}

// Lookup returns the policy of category and whether it is configured.
func (r *Registry) Lookup(category string) (models.CachePolicy, bool) {
	policy, ok := r.policies[category]
	return policy, ok
}

// Categories returns the configured categories in sorted order.
func (r *Registry) Categories() []string {
	return slices.Sorted(maps.Keys(r.policies))
}
