// Package lockmap hands out one RWMutex per key and drops it once the last
// holder releases it, so the map only grows with the set of keys in use.
package lockmap

import "sync"

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.lock(key, true)
}

func (l *Lockmap) Unlock(key string) {
	l.unlock(key, true)
}

func (l *Lockmap) RLock(key string) {
	l.lock(key, false)
}

func (l *Lockmap) RUnlock(key string) {
	l.unlock(key, false)
}

func (l *Lockmap) lock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	if write {
		hl.mu.Lock()
	} else {
		hl.mu.RLock()
	}
}

func (l *Lockmap) unlock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		l.l.Unlock()
		panic("lockmap: unlock of unlocked key " + key)
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	l.l.Unlock()

	if write {
		hl.mu.Unlock()
	} else {
		hl.mu.RUnlock()
	}
}

// Locks returns the number of keys currently held or waited on.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
