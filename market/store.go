package market

import (
	"sort"
	"sync"
)

// Store 按证券标识维护订单簿集合；首次引用未知证券时创建空簿。
type Store struct {
	mu    sync.RWMutex
	books map[string]*OrderBook
}

func NewStore() *Store {
	return &Store{books: make(map[string]*OrderBook)}
}

// Get 返回证券对应的订单簿，不存在则创建。
func (s *Store) Get(security string) *OrderBook {
	s.mu.RLock()
	ob, ok := s.books[security]
	s.mu.RUnlock()
	if ok {
		return ob
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ob, ok = s.books[security]; ok {
		return ob
	}
	ob = NewOrderBook(security)
	s.books[security] = ob
	return ob
}

// Lookup 返回证券对应的订单簿，不存在时不创建。
func (s *Store) Lookup(security string) (*OrderBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ob, ok := s.books[security]
	return ob, ok
}

// Apply 将快照应用到对应订单簿（必要时创建）。
func (s *Store) Apply(snap Snapshot) *OrderBook {
	ob := s.Get(snap.Security)
	ob.Apply(snap)
	return ob
}

// Securities 返回当前所有证券标识，按字典序。
func (s *Store) Securities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.books))
	for sec := range s.books {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}
