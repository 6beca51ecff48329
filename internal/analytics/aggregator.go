// Package analytics ranks clients and sellers by the summed totals of their
// completed orders. Results are snapshots; a cache may serve them stale for
// up to its TTL.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/ariefcatur/go-sales-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TopClientsLimit = 10
	TopSellersLimit = 3
)

type TopClient struct {
	Client party.Client    `json:"client"`
	Total  decimal.Decimal `json:"total"`
}

type TopSeller struct {
	Seller party.Seller    `json:"seller"`
	Total  decimal.Decimal `json:"total"`
}

type Source interface {
	CompletedTotals(ctx context.Context, by orders.GroupBy, limit int) ([]orders.Total, error)
}

type Parties interface {
	ClientsByID(ctx context.Context, ids []string) (map[string]party.Client, error)
	SellersByID(ctx context.Context, ids []string) (map[string]party.Seller, error)
}

type Aggregator struct {
	Orders  Source
	Parties Parties
	// Redis is optional; nil disables caching.
	Redis  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func keys(ts []orders.Total) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Key)
	}
	return out
}

// TopClients returns up to ten clients by completed spend, highest first.
// Clients deleted since their orders completed are skipped.
func (a *Aggregator) TopClients(ctx context.Context) ([]TopClient, error) {
	var out []TopClient
	if a.cached(ctx, redisx.KeyTopClients, &out) {
		return out, nil
	}
	totals, err := a.Orders.CompletedTotals(ctx, orders.ByClient, TopClientsLimit)
	if err != nil {
		return nil, fmt.Errorf("client totals: %w", err)
	}
	clients, err := a.Parties.ClientsByID(ctx, keys(totals))
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	out = make([]TopClient, 0, len(totals))
	for _, t := range totals {
		if c, ok := clients[t.Key]; ok {
			out = append(out, TopClient{Client: c, Total: t.Amount})
		}
	}
	a.store(ctx, redisx.KeyTopClients, out)
	return out, nil
}

// TopSellers returns up to three sellers by completed sales, highest first.
func (a *Aggregator) TopSellers(ctx context.Context) ([]TopSeller, error) {
	var out []TopSeller
	if a.cached(ctx, redisx.KeyTopSellers, &out) {
		return out, nil
	}
	totals, err := a.Orders.CompletedTotals(ctx, orders.BySeller, TopSellersLimit)
	if err != nil {
		return nil, fmt.Errorf("seller totals: %w", err)
	}
	sellers, err := a.Parties.SellersByID(ctx, keys(totals))
	if err != nil {
		return nil, fmt.Errorf("load sellers: %w", err)
	}
	out = make([]TopSeller, 0, len(totals))
	for _, t := range totals {
		if s, ok := sellers[t.Key]; ok {
			out = append(out, TopSeller{Seller: s, Total: t.Amount})
		}
	}
	a.store(ctx, redisx.KeyTopSellers, out)
	return out, nil
}

// Invalidate drops both cached rankings.
func (a *Aggregator) Invalidate(ctx context.Context) error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Del(ctx, redisx.KeyTopClients, redisx.KeyTopSellers).Err()
}

// cached and store treat Redis as best effort: failures fall through to the
// database.
func (a *Aggregator) cached(ctx context.Context, key string, out any) bool {
	if a.Redis == nil {
		return false
	}
	b, err := a.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.Logger.Warn("analytics cache read", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		a.Logger.Warn("analytics cache decode", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (a *Aggregator) store(ctx context.Context, key string, v any) {
	if a.Redis == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := a.Redis.Set(ctx, key, b, a.TTL).Err(); err != nil {
		a.Logger.Warn("analytics cache write", zap.String("key", key), zap.Error(err))
	}
}
