package cache

import (
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

// Action is what the read path does first.
type Action int

const (
	// ServeLocal returns the local value without waiting on the remote.
	ServeLocal Action = iota
	// FetchRemote waits on a remote fetch before answering.
	FetchRemote
)

func (a Action) String() string {
	switch a {
	case ServeLocal:
		return "serve-local"
	case FetchRemote:
		return "fetch-remote"
	}
	return "unknown"
}

// Decision is the outcome of consulting a policy for one read.
type Decision struct {
	Action Action

	// Refresh asks for a background remote fetch that updates the local
	// value for the next read. The caller is never blocked on it.
	Refresh bool

	// FallbackLocal allows serving the local value when the remote fetch
	// fails or times out.
	FallbackLocal bool

	// Bounded means the remote fetch runs under the remote timeout.
	Bounded bool

	// Stale reports that the local value is older than the policy max age.
	Stale bool
}

// Decide applies policy to a read. hasLocal reports whether a local value
// exists and age is how long ago it was last refreshed from the remote or
// written. A zero MaxAge never expires.
func Decide(policy models.CachePolicy, hasLocal bool, age time.Duration) Decision {
	stale := hasLocal && policy.MaxAge > 0 && age > policy.MaxAge

	switch policy.Strategy {
	case models.CacheFirst:
		if hasLocal && !stale {
			return Decision{Action: ServeLocal}
		}
		if hasLocal && policy.BackgroundRefresh {
			return Decision{Action: ServeLocal, Refresh: true, Stale: true}
		}
		return Decision{Action: FetchRemote, FallbackLocal: hasLocal, Stale: stale}

	case models.StaleWhileRevalidate:
		if hasLocal {
			return Decision{Action: ServeLocal, Refresh: true, Stale: stale}
		}
		return Decision{Action: FetchRemote}

	default:
		return Decision{Action: FetchRemote, FallbackLocal: hasLocal, Bounded: true, Stale: stale}
	}
}
