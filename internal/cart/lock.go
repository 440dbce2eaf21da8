package cart

import "sync"

// shopperLocks serializes cart operations per shopper key. Different
// shoppers never contend; the same shopper's operations run one at a time.
type shopperLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newShopperLocks() *shopperLocks {
	return &shopperLocks{locks: make(map[string]*lockEntry)}
}

// acquire blocks until the shopper's lock is held and returns the release
// function. Entries are dropped once the last holder releases.
func (l *shopperLocks) acquire(shopper string) func() {
	l.mu.Lock()
	entry, exists := l.locks[shopper]
	if !exists {
		entry = &lockEntry{}
		l.locks[shopper] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, shopper)
		}
		l.mu.Unlock()
	}
}
