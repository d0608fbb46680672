package store

import (
	"sync"

	"github.com/google/uuid"
)

type CartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int32     `json:"quantity"`
}

// Cart holds one buyer session's cart lines. At most one line exists per
// product; adding an already-carted product merges into the existing line.
type Cart struct {
	mu    sync.RWMutex
	items []CartItem
}

func NewCart() *Cart {
	return &Cart{items: []CartItem{}}
}

func (s *Cart) Add(productID uuid.UUID, quantity int32) CartItem {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items[i].Quantity += quantity
			return s.items[i]
		}
	}
	item := CartItem{ID: uuid.New(), ProductID: productID, Quantity: quantity}
	s.items = append(s.items, item)
	return item
}

// Remove is a silent no-op when no line carries itemID.
func (s *Cart) Remove(itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(itemID)
}

func (s *Cart) remove(itemID uuid.UUID) {
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity overwrites the line's quantity. A quantity of zero or less
// removes the line, matching Remove.
func (s *Cart) UpdateQuantity(itemID uuid.UUID, quantity int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		s.remove(itemID)
		return
	}
	for i, item := range s.items {
		if item.ID == itemID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

func (s *Cart) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []CartItem{}
}

func (s *Cart) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Count is the sum of all line quantities, used for the cart badge.
func (s *Cart) Count() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int32
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

type CartSnapshot struct {
	Items []CartItem `json:"items"`
}

func (s *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{Items: s.Items()}
}

func (s *Cart) Restore(snapshot CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]CartItem, len(snapshot.Items))
	copy(s.items, snapshot.Items)
}
