package cache

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	cacheFirst := models.CachePolicy{Strategy: models.CacheFirst, MaxAge: time.Hour}
	cacheFirstRefresh := models.CachePolicy{Strategy: models.CacheFirst, MaxAge: time.Hour, BackgroundRefresh: true}
	networkFirst := models.CachePolicy{Strategy: models.NetworkFirst, MaxAge: time.Hour}
	swr := models.CachePolicy{Strategy: models.StaleWhileRevalidate, MaxAge: time.Hour}
	noExpiry := models.CachePolicy{Strategy: models.CacheFirst}

	tests := []struct {
		name     string
		policy   models.CachePolicy
		hasLocal bool
		age      time.Duration
		want     Decision
	}{
		{"cache-first fresh", cacheFirst, true, time.Minute, Decision{Action: ServeLocal}},
		{"cache-first at max age", cacheFirst, true, time.Hour, Decision{Action: ServeLocal}},
		{"cache-first stale", cacheFirst, true, 2 * time.Hour, Decision{Action: FetchRemote, FallbackLocal: true, Stale: true}},
		{"cache-first missing", cacheFirst, false, 0, Decision{Action: FetchRemote}},
		{"cache-first stale with refresh", cacheFirstRefresh, true, 2 * time.Hour, Decision{Action: ServeLocal, Refresh: true, Stale: true}},
		{"cache-first no expiry", noExpiry, true, 1000 * time.Hour, Decision{Action: ServeLocal}},
		{"network-first with local", networkFirst, true, time.Minute, Decision{Action: FetchRemote, FallbackLocal: true, Bounded: true}},
		{"network-first missing", networkFirst, false, 0, Decision{Action: FetchRemote, Bounded: true}},
		{"swr fresh", swr, true, time.Minute, Decision{Action: ServeLocal, Refresh: true}},
		{"swr stale", swr, true, 2 * time.Hour, Decision{Action: ServeLocal, Refresh: true, Stale: true}},
		{"swr missing", swr, false, 0, Decision{Action: FetchRemote}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.policy, tt.hasLocal, tt.age))
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "serve-local", ServeLocal.String())
	assert.Equal(t, "fetch-remote", FetchRemote.String())
	assert.Equal(t, "unknown", Action(9).String())
}
