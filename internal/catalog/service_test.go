package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct{ *MemStore }

func (failingStore) List(context.Context) ([]Product, error) { return nil, errors.New("db down") }

func (failingStore) Search(context.Context, string, int) ([]Product, error) {
	return nil, errors.New("db down")
}

func newService() *Service { return NewService(NewMemStore(), zap.NewNop()) }

func TestCreateAndGet(t *testing.T) {
	s := newService()
	ctx := context.Background()

	p, err := s.Create(ctx, ProductInput{Name: "Laptop", Quantity: 5, Price: decimal.RequireFromString("999.90")})
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, 5, got.Quantity)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("999.9")))
}

func TestCreate_Invalid(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, ProductInput{Name: "", Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = s.Create(ctx, ProductInput{Name: "X", Quantity: -1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = s.Create(ctx, ProductInput{Name: "X", Quantity: 1, Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = s.Create(ctx, ProductInput{Name: "X", Quantity: MaxQuantity + 1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestGet_BadID(t *testing.T) {
	s := newService()

	_, err := s.Get(context.Background(), "not-a-uuid")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = s.Get(context.Background(), "6f1c1b7e-6a59-4f4e-9a51-1d8f0f1d2b3c")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateAndDelete(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p, err := s.Create(ctx, ProductInput{Name: "Mouse", Quantity: 2, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	up, err := s.Update(ctx, p.ID, ProductInput{Name: "Mouse Pro", Quantity: 7, Price: decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.Equal(t, "Mouse Pro", up.Name)
	assert.Equal(t, p.CreatedAt, up.CreatedAt)

	msg, err := s.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "product deleted", msg)

	_, err = s.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSearch(t *testing.T) {
	s := newService()
	ctx := context.Background()
	for _, n := range []string{"Red Shirt", "Blue Shirt", "Red Hat"} {
		_, err := s.Create(ctx, ProductInput{Name: n, Quantity: 1, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	assert.Len(t, s.Search(ctx, "shirt"), 2)
	assert.Len(t, s.Search(ctx, "red shirt"), 1)
	assert.Empty(t, s.Search(ctx, "   "))
}

func TestSearch_Limit(t *testing.T) {
	s := newService()
	ctx := context.Background()
	for i := 0; i < SearchLimit+3; i++ {
		_, err := s.Create(ctx, ProductInput{Name: "cable", Quantity: 1, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}
	assert.Len(t, s.Search(ctx, "cable"), SearchLimit)
}

func TestListing_IsLenient(t *testing.T) {
	s := NewService(failingStore{NewMemStore()}, zap.NewNop())

	assert.Equal(t, []Product{}, s.List(context.Background()))
	assert.Equal(t, []Product{}, s.Search(context.Background(), "x"))
}

func TestMemStore_Decrement(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	require.NoError(t, m.Insert(ctx, Product{ID: "p", Name: "P", Quantity: 2}))

	p, err := m.Decrement(ctx, "p", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)

	_, err = m.Decrement(ctx, "p", 1)
	var ise *apperr.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "P", ise.ProductName)
	assert.Equal(t, 0, ise.Available)

	_, err = m.Decrement(ctx, "missing", 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMemStore_IncrementCapsAtMaxQuantity(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	require.NoError(t, m.Insert(ctx, Product{ID: "p", Name: "P", Quantity: MaxQuantity - 1}))

	p, err := m.Increment(ctx, "p", 1)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, p.Quantity)

	_, err = m.Increment(ctx, "p", 1)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	got, err := m.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, got.Quantity)
}
