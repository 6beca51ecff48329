package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/shopspring/decimal"
)

type MemStore struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewMemStore() *MemStore {
	return &MemStore{orders: map[string]Order{}}
}

func clone(o Order) Order {
	o.Items = append([]LineItem(nil), o.Items...)
	return o
}

func (m *MemStore) Insert(_ context.Context, o Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = clone(o)
	return nil
}

func (m *MemStore) Get(_ context.Context, id string) (Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return Order{}, apperr.NotFound("order")
	}
	return clone(o), nil
}

func (m *MemStore) List(_ context.Context, f Filter) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Order{}
	for _, o := range m.orders {
		if f.SellerID != "" && o.SellerID != f.SellerID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) Update(_ context.Context, o Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.orders[o.ID]
	if !ok {
		return apperr.NotFound("order")
	}
	o.SellerID, o.CreatedAt = old.SellerID, old.CreatedAt
	m.orders[o.ID] = clone(o)
	return nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return apperr.NotFound("order")
	}
	delete(m.orders, id)
	return nil
}

func (m *MemStore) CompletedTotals(_ context.Context, by GroupBy, limit int) ([]Total, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := map[string]decimal.Decimal{}
	for _, o := range m.orders {
		if o.Status != StatusCompleted {
			continue
		}
		key := o.ClientID
		if by == BySeller {
			key = o.SellerID
		}
		sums[key] = sums[key].Add(o.Total)
	}
	out := make([]Total, 0, len(sums))
	for k, v := range sums {
		out = append(out, Total{Key: k, Amount: v})
	}
	return RankTotals(out, limit), nil
}
