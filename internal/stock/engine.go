// Package stock applies and reverses the quantity deltas of order line items
// against the catalog.
//
// Neither Reserve nor Release is idempotent: the caller must invoke each
// exactly once per logical transition of an order.
package stock

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/catalog"
	"github.com/ariefcatur/go-sales-orders/internal/observability"
	"go.uber.org/zap"
)

type Item struct {
	ProductID string
	Quantity  int
}

type Engine struct {
	Catalog catalog.Store
	Logger  *zap.Logger

	// Atomic decrements with one conditional update per item. When false each
	// item is read and then written back, which can oversell under
	// concurrent reservations.
	Atomic bool
	// Compensate restores the items already decremented when a later item in
	// the same Reserve call fails. When false they stay decremented.
	Compensate bool
}

func NewEngine(store catalog.Store, logger *zap.Logger) *Engine {
	return &Engine{Catalog: store, Logger: logger, Atomic: true, Compensate: true}
}

// resolve checks every item before any quantity moves. Missing products are a
// validation failure of the request, not a lookup miss.
func (e *Engine) resolve(ctx context.Context, items []Item) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return apperr.Invalid("quantity for product %s must be greater than 0", it.ProductID)
		}
		if !catalog.ValidID(it.ProductID) {
			return apperr.Invalid("product %s does not exist", it.ProductID)
		}
		if _, err := e.Catalog.Get(ctx, it.ProductID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Invalid("product %s does not exist", it.ProductID)
			}
			return err
		}
	}
	return nil
}

// Reserve decrements each item's product in order and returns the products as
// they stood after their decrement. The first shortfall stops the batch with
// *apperr.InsufficientStockError.
func (e *Engine) Reserve(ctx context.Context, items []Item) ([]catalog.Product, error) {
	if err := e.resolve(ctx, items); err != nil {
		observability.StockReservations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	out := make([]catalog.Product, 0, len(items))
	for i, it := range items {
		p, err := e.reserveOne(ctx, it)
		if err != nil {
			if e.Compensate && i > 0 {
				e.restore(ctx, items[:i])
			}
			if errors.Is(err, apperr.ErrInsufficientStock) {
				observability.StockReservations.WithLabelValues("insufficient").Inc()
			} else {
				observability.StockReservations.WithLabelValues("error").Inc()
			}
			return nil, err
		}
		observability.StockUnitsMoved.WithLabelValues("out").Add(float64(it.Quantity))
		out = append(out, p)
	}
	observability.StockReservations.WithLabelValues("ok").Inc()
	return out, nil
}

func (e *Engine) reserveOne(ctx context.Context, it Item) (catalog.Product, error) {
	if e.Atomic {
		return e.Catalog.Decrement(ctx, it.ProductID, it.Quantity)
	}
	p, err := e.Catalog.Get(ctx, it.ProductID)
	if err != nil {
		return catalog.Product{}, err
	}
	if p.Quantity < it.Quantity {
		return p, &apperr.InsufficientStockError{
			ProductID: p.ID, ProductName: p.Name, Requested: it.Quantity, Available: p.Quantity,
		}
	}
	p.Quantity -= it.Quantity
	if err := e.Catalog.SetQuantity(ctx, p.ID, p.Quantity); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Release adds each item's quantity back. There is no business upper bound;
// only the storable maximum catalog.MaxQuantity is enforced.
func (e *Engine) Release(ctx context.Context, items []Item) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return apperr.Invalid("quantity for product %s must be greater than 0", it.ProductID)
		}
		if !catalog.ValidID(it.ProductID) {
			return apperr.NotFound("product " + it.ProductID)
		}
		p, err := e.Catalog.Get(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if it.Quantity > catalog.MaxQuantity-p.Quantity {
			return apperr.Invalid("quantity for product %s would exceed %d", p.Name, catalog.MaxQuantity)
		}
	}
	for _, it := range items {
		if _, err := e.Catalog.Increment(ctx, it.ProductID, it.Quantity); err != nil {
			return err
		}
		observability.StockUnitsMoved.WithLabelValues("in").Add(float64(it.Quantity))
	}
	return nil
}

func (e *Engine) restore(ctx context.Context, items []Item) {
	for _, it := range items {
		if _, err := e.Catalog.Increment(ctx, it.ProductID, it.Quantity); err != nil {
			e.Logger.Error("restore stock after failed reservation",
				zap.String("product_id", it.ProductID), zap.Int("qty", it.Quantity), zap.Error(err))
		}
	}
}
