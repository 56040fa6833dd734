package service

import (
	"sync"

	"github.com/MKhiriev/go-offline-sync/models"
)

// collectionLocks serializes writers of one collection so that local writes
// and their remote transmission happen in call order.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[models.Collection]*sync.Mutex
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{locks: make(map[models.Collection]*sync.Mutex)}
}

// lock acquires the lock of collection and returns its release function.
func (c *collectionLocks) lock(collection models.Collection) func() {
	c.mu.Lock()
	l, ok := c.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		c.locks[collection] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
