package catalog

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest stock count the products.quantity column holds.
const MaxQuantity = math.MaxInt32

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProductInput struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0,lte=2147483647"`
	Price    decimal.Decimal `json:"price"`
}

// Store is the persistence contract for products. Get, Update, Delete and the
// quantity operations return apperr.ErrNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, text string, limit int) ([]Product, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error

	// SetQuantity overwrites the stored quantity without looking at it.
	SetQuantity(ctx context.Context, id string, qty int) error
	// Decrement subtracts qty iff the current quantity covers it, as one step.
	// A shortfall returns *apperr.InsufficientStockError.
	Decrement(ctx context.Context, id string, qty int) (Product, error)
	// Increment adds qty; a result above MaxQuantity returns apperr.ErrValidation
	// and leaves the row untouched.
	Increment(ctx context.Context, id string, qty int) (Product, error)
}
