package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderAmended       = "OrderAmended"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDeleted       = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// Event is what the lifecycle manager emits after a successful mutation.
type Event struct {
	Type    string
	Payload OrderEventPayload
}

type OrderEventPayload struct {
	OrderID        string          `json:"order_id"`
	ClientID       string          `json:"client_id"`
	SellerID       string          `json:"seller_id"`
	Status         Status          `json:"status"`
	PreviousStatus Status          `json:"previous_status,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Items          []ItemQty       `json:"items,omitempty"`
	Restocked      bool            `json:"restocked,omitempty"`
}

func payloadOf(o Order) OrderEventPayload {
	items := make([]ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemQty{ProductID: it.ProductID, Qty: it.Quantity})
	}
	return OrderEventPayload{
		OrderID:  o.ID,
		ClientID: o.ClientID,
		SellerID: o.SellerID,
		Status:   o.Status,
		Total:    o.Total,
		Items:    items,
	}
}

// AffectsRankings reports whether the event can change the completed-order
// totals that analytics ranks.
func (p OrderEventPayload) AffectsRankings() bool {
	return p.Status == StatusCompleted || p.PreviousStatus == StatusCompleted
}
