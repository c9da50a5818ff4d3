package services

import (
	"slices"
	"sync"
)

// keyedLocks serializes work per key (a venue for bookings, an event for
// registrations) within this process. Writers on other instances are not covered.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// lock acquires every key in sorted order and returns the release func.
func (l *keyedLocks) lock(keys ...string) func() {
	ids := slices.Clone(keys)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*keyedLock, 0, len(ids))
	for _, id := range ids {
		l.mu.Lock()
		vl, ok := l.locks[id]
		if !ok {
			vl = &keyedLock{}
			l.locks[id] = vl
		}
		vl.refs++
		l.mu.Unlock()

		vl.Lock()
		held = append(held, vl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			vl := held[i]
			vl.Unlock()
			l.mu.Lock()
			vl.refs--
			if vl.refs == 0 {
				delete(l.locks, ids[i])
			}
			l.mu.Unlock()
		}
	}
}
