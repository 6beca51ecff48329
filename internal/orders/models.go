package orders

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is embedded in an order. Name and Price are snapshots taken from
// the catalog when the item was reserved.
type LineItem struct {
	ProductID string          `json:"id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID        string          `json:"id"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ClientID  string          `json:"client_id"`
	SellerID  string          `json:"seller_id"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type ItemInput struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type CreateInput struct {
	ClientID string      `json:"client_id" validate:"required"`
	Items    []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// AmendInput leaves a field untouched when it is zero: empty ClientID, nil
// Items, nil Status.
type AmendInput struct {
	ClientID string      `json:"client_id"`
	Items    []ItemInput `json:"items" validate:"omitempty,min=1,dive"`
	Status   *Status     `json:"status"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	SellerID string
	Status   Status
}

type GroupBy string

const (
	ByClient GroupBy = "client_id"
	BySeller GroupBy = "seller_id"
)

// Total is the summed order total of one client or seller.
type Total struct {
	Key    string
	Amount decimal.Decimal
}

type Store interface {
	Insert(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
	// CompletedTotals sums COMPLETED orders per key, highest first, ties by
	// key ascending, at most limit rows.
	CompletedTotals(ctx context.Context, by GroupBy, limit int) ([]Total, error)
}

// RankTotals orders totals by amount descending then key ascending and cuts to limit.
func RankTotals(ts []Total, limit int) []Total {
	sort.Slice(ts, func(i, j int) bool {
		if c := ts[i].Amount.Cmp(ts[j].Amount); c != 0 {
			return c > 0
		}
		return ts[i].Key < ts[j].Key
	})
	if limit >= 0 && len(ts) > limit {
		ts = ts[:limit]
	}
	return ts
}

func total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}
