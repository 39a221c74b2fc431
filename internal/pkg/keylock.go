package pkg

import "sync"

// KeyLock serializes work per key. Different keys never contend with each
// other beyond the short bookkeeping section that hands out entries.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
}

type keyEntry struct {
	mu      sync.Mutex
	holders int
}

func NewKeyLock() *KeyLock {
	return &KeyLock{
		entries: make(map[string]*keyEntry),
	}
}

// Lock blocks until key is free and returns the function that releases it.
func (that *KeyLock) Lock(key string) func() {
	that.mu.Lock()
	entry, ok := that.entries[key]
	if !ok {
		entry = &keyEntry{}
		that.entries[key] = entry
	}
	entry.holders++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(that.entries, key)
		}
		that.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited.
func (that *KeyLock) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.entries)
}
