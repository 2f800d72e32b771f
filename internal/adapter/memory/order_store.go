package memory

import (
	"sync"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

// orderStore keeps the active working set in memory. Records are mutated
// only by the lifecycle engine; the store just owns lookup and the
// per-day number sequence.
type orderStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Order
	ordered []string

	numberDay  string
	nextNumber int
}

func NewOrderStore() interfaces.OrderStore {
	return &orderStore{
		byID: make(map[string]*domain.Order),
	}
}

func (s *orderStore) Add(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[order.ID]; exists {
		return
	}
	s.byID[order.ID] = order
	s.ordered = append(s.ordered, order.ID)
}

func (s *orderStore) Get(id string) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.byID[id]
	return order, ok
}

func (s *orderStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, oid := range s.ordered {
		if oid == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}
}

// List returns the working set in intake order.
func (s *orderStore) List() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(s.ordered))
	for _, id := range s.ordered {
		orders = append(orders, s.byID[id])
	}
	return orders
}

// NextNumber returns the display sequence for the given day. The counter
// resets when the day changes.
func (s *orderStore) NextNumber(day time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := day.Format("2006-01-02")
	if date != s.numberDay {
		s.numberDay = date
		s.nextNumber = 0
	}
	s.nextNumber++
	return s.nextNumber
}
