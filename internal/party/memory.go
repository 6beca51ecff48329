package party

import (
	"context"
	"sort"
	"sync"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
)

type MemStore struct {
	mu      sync.RWMutex
	sellers map[string]Seller
	clients map[string]Client
}

func NewMemStore() *MemStore {
	return &MemStore{sellers: map[string]Seller{}, clients: map[string]Client{}}
}

func (m *MemStore) InsertSeller(_ context.Context, s Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.sellers {
		if x.Email == s.Email {
			return apperr.Conflict("user already registered")
		}
	}
	m.sellers[s.ID] = s
	return nil
}

func (m *MemStore) Seller(_ context.Context, id string) (Seller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sellers[id]
	if !ok {
		return Seller{}, apperr.NotFound("user")
	}
	return s, nil
}

func (m *MemStore) SellerByEmail(_ context.Context, email string) (Seller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sellers {
		if s.Email == email {
			return s, nil
		}
	}
	return Seller{}, apperr.NotFound("user")
}

func (m *MemStore) SellersByID(_ context.Context, ids []string) (map[string]Seller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Seller, len(ids))
	for _, id := range ids {
		if s, ok := m.sellers[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *MemStore) emailTaken(email, exceptID string) bool {
	for _, c := range m.clients {
		if c.Email == email && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemStore) InsertClient(_ context.Context, c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(c.Email, "") {
		return apperr.Conflict("client already registered")
	}
	m.clients[c.ID] = c
	return nil
}

func (m *MemStore) Client(_ context.Context, id string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return Client{}, apperr.NotFound("client")
	}
	return c, nil
}

func (m *MemStore) ClientByEmail(_ context.Context, email string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return Client{}, apperr.NotFound("client")
}

func (m *MemStore) ClientsByID(_ context.Context, ids []string) (map[string]Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Client, len(ids))
	for _, id := range ids {
		if c, ok := m.clients[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *MemStore) ListClients(_ context.Context, sellerID string) ([]Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Client{}
	for _, c := range m.clients {
		if sellerID == "" || c.SellerID == sellerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) UpdateClient(_ context.Context, c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.clients[c.ID]
	if !ok {
		return apperr.NotFound("client")
	}
	if m.emailTaken(c.Email, c.ID) {
		return apperr.Conflict("client already registered")
	}
	c.SellerID, c.CreatedAt = old.SellerID, old.CreatedAt
	m.clients[c.ID] = c
	return nil
}

func (m *MemStore) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return apperr.NotFound("client")
	}
	delete(m.clients, id)
	return nil
}
