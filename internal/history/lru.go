package history

import (
	"container/list"
	"sync"
)

// LRUStore keeps the most recent entries in memory and writes every entry
// through to a backing Store, which serves misses.
type LRUStore struct {
	mu    sync.Mutex
	cap   int
	back  Store
	order *list.List // of *Entry, most recent at front
	items map[string]*list.Element
}

// NewLRUStore creates an LRU cache with the given capacity that delegates
// to back on cache misses. Capacity must be >= 1.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		order: list.New(),
		items: make(map[string]*list.Element, cap),
	}
}

// Save writes the entry to the backing store and caches it once the write
// succeeds.
func (s *LRUStore) Save(entry *Entry) error {
	if err := s.back.Save(entry); err != nil {
		return err
	}
	s.put(entry)
	return nil
}

// Load returns a cached entry, or loads it from the backing store and
// caches it.
func (s *LRUStore) Load(runID string) (*Entry, error) {
	s.mu.Lock()
	if el, ok := s.items[runID]; ok {
		s.order.MoveToFront(el)
		e := el.Value.(*Entry)
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	entry, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}
	s.put(entry)
	return entry, nil
}

// Recent returns the cached entries, most recently used first.
func (s *LRUStore) Recent() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Entry, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*Entry))
	}
	return out
}

func (s *LRUStore) put(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[entry.ID]; ok {
		el.Value = entry
		s.order.MoveToFront(el)
		return
	}
	s.items[entry.ID] = s.order.PushFront(entry)
	for s.order.Len() > s.cap {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*Entry).ID)
	}
}
