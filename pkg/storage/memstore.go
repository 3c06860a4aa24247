package storage

import "sync"

// MemBus is the shared half of the in-memory store double: every handle
// opened from the same bus sees the same values, and a write on one handle
// notifies subscribers on every other handle. One handle stands in for one
// execution context, which makes cross-context scenarios testable inside a
// single process.
type MemBus struct {
	mu      sync.Mutex
	values  map[string][]byte
	handles map[*MemStore]struct{}
}

func NewMemBus() *MemBus {
	return &MemBus{
		values:  make(map[string][]byte),
		handles: make(map[*MemStore]struct{}),
	}
}

// Open creates a new handle on the bus, representing one execution context.
func (b *MemBus) Open() *MemStore {
	ms := &MemStore{
		bus:  b,
		subs: make(map[string]map[int]func([]byte)),
	}
	b.mu.Lock()
	b.handles[ms] = struct{}{}
	b.mu.Unlock()
	return ms
}

// MemStore is one execution context's view of a MemBus.
type MemStore struct {
	bus *MemBus

	mu        sync.Mutex
	subs      map[string]map[int]func([]byte)
	nextSubID int
}

// NewMemStore returns a standalone in-memory store with no siblings.
func NewMemStore() *MemStore {
	return NewMemBus().Open()
}

func (ms *MemStore) Get(key string) ([]byte, bool, error) {
	ms.bus.mu.Lock()
	defer ms.bus.mu.Unlock()

	value, ok := ms.bus.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (ms *MemStore) Set(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	ms.bus.mu.Lock()
	ms.bus.values[key] = cp
	siblings := make([]*MemStore, 0, len(ms.bus.handles))
	for h := range ms.bus.handles {
		if h != ms {
			siblings = append(siblings, h)
		}
	}
	ms.bus.mu.Unlock()

	// The writer never observes its own change.
	for _, sibling := range siblings {
		sibling.notify(key, cp)
	}
	return nil
}

func (ms *MemStore) Delete(key string) error {
	ms.bus.mu.Lock()
	delete(ms.bus.values, key)
	ms.bus.mu.Unlock()
	return nil
}

func (ms *MemStore) Subscribe(key string, fn func(payload []byte)) func() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.subs[key] == nil {
		ms.subs[key] = make(map[int]func([]byte))
	}
	id := ms.nextSubID
	ms.nextSubID++
	ms.subs[key][id] = fn

	return func() {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		delete(ms.subs[key], id)
	}
}

func (ms *MemStore) Close() error {
	ms.bus.mu.Lock()
	delete(ms.bus.handles, ms)
	ms.bus.mu.Unlock()
	return nil
}

func (ms *MemStore) notify(key string, payload []byte) {
	ms.mu.Lock()
	fns := make([]func([]byte), 0, len(ms.subs[key]))
	for _, fn := range ms.subs[key] {
		fns = append(fns, fn)
	}
	ms.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}
