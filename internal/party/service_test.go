package party

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	alice = access.Actor{ID: "11111111-1111-1111-1111-111111111111", Email: "alice@shop.test"}
	bob   = access.Actor{ID: "22222222-2222-2222-2222-222222222222", Email: "bob@shop.test"}
)

func input(email string) ClientInput {
	return ClientInput{Name: "Ana", Surname: "Lopez", Company: "ACME", Email: email, Phone: "555"}
}

func TestCreateClient(t *testing.T) {
	s := NewService(NewMemStore(), zap.NewNop())
	ctx := context.Background()

	c, err := s.CreateClient(ctx, alice, input(" Ana@Acme.test "))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, c.SellerID)
	assert.Equal(t, "ana@acme.test", c.Email)

	_, err = s.CreateClient(ctx, bob, input("ana@acme.test"))
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = s.CreateClient(ctx, alice, ClientInput{Email: "bad"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestClient_Ownership(t *testing.T) {
	s := NewService(NewMemStore(), zap.NewNop())
	ctx := context.Background()
	c, err := s.CreateClient(ctx, alice, input("a@acme.test"))
	require.NoError(t, err)

	_, err = s.Client(ctx, alice, c.ID)
	assert.NoError(t, err)

	_, err = s.Client(ctx, bob, c.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = s.UpdateClient(ctx, bob, c.ID, input("x@acme.test"))
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = s.DeleteClient(ctx, bob, c.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = s.Client(ctx, alice, "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateClient(t *testing.T) {
	s := NewService(NewMemStore(), zap.NewNop())
	ctx := context.Background()
	c1, err := s.CreateClient(ctx, alice, input("one@acme.test"))
	require.NoError(t, err)
	_, err = s.CreateClient(ctx, alice, input("two@acme.test"))
	require.NoError(t, err)

	_, err = s.UpdateClient(ctx, alice, c1.ID, input("two@acme.test"))
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	in := input("one@acme.test")
	in.Company = "Globex"
	up, err := s.UpdateClient(ctx, alice, c1.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Globex", up.Company)
	assert.Equal(t, alice.ID, up.SellerID)
}

func TestDeleteAndList(t *testing.T) {
	s := NewService(NewMemStore(), zap.NewNop())
	ctx := context.Background()
	c, err := s.CreateClient(ctx, alice, input("a@acme.test"))
	require.NoError(t, err)
	_, err = s.CreateClient(ctx, bob, input("b@acme.test"))
	require.NoError(t, err)

	assert.Len(t, s.ListClients(ctx), 2)
	assert.Len(t, s.ListSellerClients(ctx, alice), 1)

	msg, err := s.DeleteClient(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "client deleted", msg)
	assert.Empty(t, s.ListSellerClients(ctx, alice))
}

func TestMemStore_Sellers(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	require.NoError(t, m.InsertSeller(ctx, Seller{ID: "s1", Email: "a@b.c"}))
	assert.True(t, errors.Is(m.InsertSeller(ctx, Seller{ID: "s2", Email: "a@b.c"}), apperr.ErrConflict))

	got, err := m.SellersByID(ctx, []string{"s1", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
