package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
)

// MemStore keeps products in a map. Each method holds the lock for its whole
// body, so Decrement is atomic while Get followed by SetQuantity is not.
type MemStore struct {
	mu       sync.Mutex
	products map[string]Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: map[string]Product{}}
}

func (m *MemStore) Get(_ context.Context, id string) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, apperr.NotFound("product")
	}
	return p, nil
}

func (m *MemStore) List(_ context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Search matches products whose name contains every word of text.
func (m *MemStore) Search(ctx context.Context, text string, limit int) ([]Product, error) {
	words := strings.Fields(strings.ToLower(text))
	all, _ := m.List(ctx)
	out := []Product{}
	for _, p := range all {
		if len(out) == limit {
			break
		}
		if len(words) > 0 && containsAll(strings.Fields(strings.ToLower(p.Name)), words) {
			out = append(out, p)
		}
	}
	return out, nil
}

func containsAll(haystack, words []string) bool {
	for _, w := range words {
		found := false
		for _, h := range haystack {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *MemStore) Insert(_ context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *MemStore) Update(_ context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.products[p.ID]
	if !ok {
		return apperr.NotFound("product")
	}
	p.CreatedAt = old.CreatedAt
	m.products[p.ID] = p
	return nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("product")
	}
	delete(m.products, id)
	return nil
}

func (m *MemStore) SetQuantity(_ context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return apperr.NotFound("product")
	}
	p.Quantity = qty
	m.products[id] = p
	return nil
}

func (m *MemStore) Decrement(_ context.Context, id string, qty int) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, apperr.NotFound("product")
	}
	if p.Quantity < qty {
		return p, &apperr.InsufficientStockError{
			ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Quantity,
		}
	}
	p.Quantity -= qty
	m.products[id] = p
	return p, nil
}

func (m *MemStore) Increment(_ context.Context, id string, qty int) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, apperr.NotFound("product")
	}
	if qty > MaxQuantity-p.Quantity {
		return p, apperr.Invalid("quantity for product %s would exceed %d", p.Name, MaxQuantity)
	}
	p.Quantity += qty
	m.products[id] = p
	return p, nil
}
