package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/ariefcatur/go-sales-orders/internal/redisx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type world struct {
	orders  *orders.MemStore
	parties *party.MemStore
	agg     *Aggregator
}

func newWorld() *world {
	w := &world{orders: orders.NewMemStore(), parties: party.NewMemStore()}
	w.agg = &Aggregator{Orders: w.orders, Parties: w.parties, Logger: zap.NewNop()}
	return w
}

func (w *world) seller(t *testing.T, name string) party.Seller {
	s := party.Seller{ID: uuid.NewString(), Name: name, Email: name + "@sales.test"}
	require.NoError(t, w.parties.InsertSeller(context.Background(), s))
	return s
}

func (w *world) client(t *testing.T, name, sellerID string) party.Client {
	c := party.Client{ID: uuid.NewString(), Name: name, Email: name + "@clients.test", SellerID: sellerID}
	require.NoError(t, w.parties.InsertClient(context.Background(), c))
	return c
}

func (w *world) order(t *testing.T, c party.Client, total string, st orders.Status) {
	require.NoError(t, w.orders.Insert(context.Background(), orders.Order{
		ID:       uuid.NewString(),
		ClientID: c.ID,
		SellerID: c.SellerID,
		Total:    decimal.RequireFromString(total),
		Status:   st,
	}))
}

func TestTopClients_OnlyCompletedDescending(t *testing.T) {
	w := newWorld()
	s := w.seller(t, "sam")
	a := w.client(t, "a", s.ID)
	b := w.client(t, "b", s.ID)

	w.order(t, a, "100", orders.StatusCompleted)
	w.order(t, a, "50", orders.StatusCompleted)
	w.order(t, b, "120", orders.StatusCompleted)
	w.order(t, b, "999", orders.StatusPending)
	w.order(t, b, "999", orders.StatusCancelled)

	top, err := w.agg.TopClients(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.ID, top[0].Client.ID)
	assert.True(t, decimal.NewFromInt(150).Equal(top[0].Total))
	assert.Equal(t, b.ID, top[1].Client.ID)
	assert.True(t, decimal.NewFromInt(120).Equal(top[1].Total))
}

func TestTopClients_NoCompletedOrders(t *testing.T) {
	w := newWorld()
	s := w.seller(t, "sam")
	w.order(t, w.client(t, "a", s.ID), "10", orders.StatusPending)

	top, err := w.agg.TopClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestTopClients_LimitAndTieBreak(t *testing.T) {
	w := newWorld()
	s := w.seller(t, "sam")
	for i := 0; i < 12; i++ {
		w.order(t, w.client(t, fmt.Sprintf("c%02d", i), s.ID), "10", orders.StatusCompleted)
	}

	top, err := w.agg.TopClients(context.Background())
	require.NoError(t, err)
	require.Len(t, top, TopClientsLimit)
	for i := 1; i < len(top); i++ {
		assert.Less(t, top[i-1].Client.ID, top[i].Client.ID)
	}
}

func TestTopClients_SkipsDeletedClients(t *testing.T) {
	w := newWorld()
	s := w.seller(t, "sam")
	gone := w.client(t, "gone", s.ID)
	kept := w.client(t, "kept", s.ID)
	w.order(t, gone, "500", orders.StatusCompleted)
	w.order(t, kept, "5", orders.StatusCompleted)
	require.NoError(t, w.parties.DeleteClient(context.Background(), gone.ID))

	top, err := w.agg.TopClients(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, kept.ID, top[0].Client.ID)
}

func TestTopSellers_LimitThree(t *testing.T) {
	w := newWorld()
	amounts := []string{"40", "10", "30", "20"}
	var sellers []party.Seller
	for i, amt := range amounts {
		s := w.seller(t, fmt.Sprintf("s%d", i))
		sellers = append(sellers, s)
		w.order(t, w.client(t, fmt.Sprintf("c%d", i), s.ID), amt, orders.StatusCompleted)
	}

	top, err := w.agg.TopSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, top, TopSellersLimit)
	assert.Equal(t, sellers[0].ID, top[0].Seller.ID)
	assert.Equal(t, sellers[2].ID, top[1].Seller.ID)
	assert.Equal(t, sellers[3].ID, top[2].Seller.ID)
	assert.True(t, decimal.NewFromInt(40).Equal(top[0].Total))
}

func TestInvalidate_NoCache(t *testing.T) {
	assert.NoError(t, newWorld().agg.Invalidate(context.Background()))
}

func TestTopClients_CachedUntilInvalidated(t *testing.T) {
	mr, rdb := newRedis(t)
	w := newWorld()
	w.agg.Redis = rdb
	w.agg.TTL = time.Minute
	s := w.seller(t, "sam")
	a := w.client(t, "a", s.ID)
	w.order(t, a, "10", orders.StatusCompleted)
	ctx := context.Background()

	top, err := w.agg.TopClients(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, mr.Exists(redisx.KeyTopClients))

	w.order(t, w.client(t, "b", s.ID), "99", orders.StatusCompleted)
	top, err = w.agg.TopClients(ctx)
	require.NoError(t, err)
	assert.Len(t, top, 1, "served from cache")

	require.NoError(t, w.agg.Invalidate(ctx))
	top, err = w.agg.TopClients(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.True(t, decimal.NewFromInt(99).Equal(top[0].Total))
}
