package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/catalog"
	"github.com/ariefcatur/go-sales-orders/internal/observability"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/ariefcatur/go-sales-orders/internal/stock"
	"github.com/ariefcatur/go-sales-orders/internal/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/ariefcatur/go-sales-orders/internal/orders")

// ClientLookup resolves a client by id without ownership checks.
type ClientLookup interface {
	Lookup(ctx context.Context, id string) (party.Client, error)
}

// Manager owns the order state machine and drives the stock engine on
// create, amend and delete. Every order's seller equals its client's seller.
type Manager struct {
	Orders  Store
	Clients ClientLookup
	Stock   *stock.Engine
	Events  Publisher
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewManager(store Store, clients ClientLookup, engine *stock.Engine, events Publisher, logger *zap.Logger) *Manager {
	if events == nil {
		events = NopPublisher{}
	}
	return &Manager{Orders: store, Clients: clients, Stock: engine, Events: events, Logger: logger, Now: time.Now}
}

func (m *Manager) span(ctx context.Context, op string, actor access.Actor) (context.Context, trace.Span) {
	return tracer.Start(ctx, "orders."+op, trace.WithAttributes(attribute.String("seller.id", actor.ID)))
}

func (m *Manager) done(span trace.Span, op string, err error) {
	code := apperr.Code(err)
	if code == "" {
		code = "OK"
	}
	observability.OrderOperations.WithLabelValues(op, code).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
	}
	span.End()
}

func stockItems(items []ItemInput) []stock.Item {
	out := make([]stock.Item, 0, len(items))
	for _, it := range items {
		out = append(out, stock.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func reservedItems(items []LineItem) []stock.Item {
	out := make([]stock.Item, 0, len(items))
	for _, it := range items {
		out = append(out, stock.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func snapshot(in []ItemInput, ps []catalog.Product) []LineItem {
	out := make([]LineItem, 0, len(in))
	for i, it := range in {
		out = append(out, LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Name:      ps[i].Name,
			Price:     ps[i].Price,
		})
	}
	return out
}

// ownedClient loads the client and checks the actor owns it.
func (m *Manager) ownedClient(ctx context.Context, actor access.Actor, clientID string) (party.Client, error) {
	c, err := m.Clients.Lookup(ctx, clientID)
	if err != nil {
		return party.Client{}, err
	}
	if err := access.Authorize(actor, c.SellerID); err != nil {
		return party.Client{}, err
	}
	return c, nil
}

// owned loads an order the actor may mutate.
func (m *Manager) owned(ctx context.Context, actor access.Actor, id string) (Order, error) {
	if !catalog.ValidID(id) {
		return Order{}, apperr.NotFound("order")
	}
	o, err := m.Orders.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := access.Authorize(actor, o.SellerID); err != nil {
		return Order{}, err
	}
	return o, nil
}

// CreateOrder reserves stock for every item and stores a PENDING order owned
// by actor.
func (m *Manager) CreateOrder(ctx context.Context, actor access.Actor, in CreateInput) (o Order, err error) {
	ctx, span := m.span(ctx, "create", actor)
	defer func() { m.done(span, "create", err) }()

	if err := validation.Struct(in); err != nil {
		return Order{}, err
	}
	client, err := m.ownedClient(ctx, actor, in.ClientID)
	if err != nil {
		return Order{}, err
	}
	ps, err := m.Stock.Reserve(ctx, stockItems(in.Items))
	if err != nil {
		return Order{}, err
	}

	items := snapshot(in.Items, ps)
	o = Order{
		ID:        uuid.NewString(),
		Items:     items,
		Total:     total(items),
		ClientID:  client.ID,
		SellerID:  actor.ID,
		Status:    StatusPending,
		CreatedAt: m.Now().UTC(),
	}
	if err := m.Orders.Insert(ctx, o); err != nil {
		if m.Stock.Compensate {
			m.undo("release after failed insert", m.Stock.Release(ctx, reservedItems(items)), o.ID)
		}
		return Order{}, err
	}

	m.Events.Publish(ctx, Event{Type: EventOrderCreated, Payload: payloadOf(o)})
	m.Logger.Info("order created",
		zap.String("order_id", o.ID), zap.String("seller_id", actor.ID), zap.String("total", o.Total.String()))
	return o, nil
}

// AmendOrder changes client, items and/or status. New items are applied by
// releasing the old reservation and reserving the new one.
func (m *Manager) AmendOrder(ctx context.Context, actor access.Actor, id string, in AmendInput) (o Order, err error) {
	ctx, span := m.span(ctx, "amend", actor)
	defer func() { m.done(span, "amend", err) }()

	o, err = m.owned(ctx, actor, id)
	if err != nil {
		return Order{}, err
	}
	if in.Items != nil && len(in.Items) == 0 {
		return Order{}, apperr.Invalid("an order needs at least one item")
	}
	if err := validation.Struct(in); err != nil {
		return Order{}, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return Order{}, apperr.Invalid("unknown order status %q", *in.Status)
	}
	clientID := o.ClientID
	if in.ClientID != "" {
		clientID = in.ClientID
	}
	if _, err := m.ownedClient(ctx, actor, clientID); err != nil {
		return Order{}, err
	}

	prev := o
	if in.Items != nil {
		old := reservedItems(o.Items)
		if err := m.Stock.Release(ctx, old); err != nil {
			return Order{}, err
		}
		ps, err := m.Stock.Reserve(ctx, stockItems(in.Items))
		if err != nil {
			if m.Stock.Compensate {
				_, rerr := m.Stock.Reserve(ctx, old)
				m.undo("re-reserve previous items after failed amend", rerr, o.ID)
			}
			return Order{}, err
		}
		o.Items = snapshot(in.Items, ps)
		o.Total = total(o.Items)
	}
	o.ClientID = clientID
	if in.Status != nil {
		o.Status = *in.Status
	}

	if err := m.Orders.Update(ctx, o); err != nil {
		if in.Items != nil && m.Stock.Compensate {
			m.undo("release new items after failed update", m.Stock.Release(ctx, reservedItems(o.Items)), o.ID)
			_, rerr := m.Stock.Reserve(ctx, reservedItems(prev.Items))
			m.undo("re-reserve previous items after failed update", rerr, o.ID)
		}
		return Order{}, err
	}

	p := payloadOf(o)
	p.PreviousStatus = prev.Status
	m.Events.Publish(ctx, Event{Type: EventOrderAmended, Payload: p})
	m.Logger.Info("order amended", zap.String("order_id", o.ID), zap.Bool("items_changed", in.Items != nil))
	return o, nil
}

// UpdateStatus changes only the status. Stock is never touched here, even
// when moving to or from CANCELLED.
func (m *Manager) UpdateStatus(ctx context.Context, actor access.Actor, id string, status Status) (o Order, err error) {
	ctx, span := m.span(ctx, "status", actor)
	defer func() { m.done(span, "status", err) }()

	if !status.Valid() {
		return Order{}, apperr.Invalid("unknown order status %q", status)
	}
	o, err = m.owned(ctx, actor, id)
	if err != nil {
		return Order{}, err
	}
	prev := o.Status
	o.Status = status
	if err := m.Orders.Update(ctx, o); err != nil {
		return Order{}, err
	}

	p := payloadOf(o)
	p.PreviousStatus = prev
	m.Events.Publish(ctx, Event{Type: EventOrderStatusChanged, Payload: p})
	return o, nil
}

// DeleteOrder removes the order. With restock the reservation is released
// first and the order counts as cancelled.
func (m *Manager) DeleteOrder(ctx context.Context, actor access.Actor, id string, restock bool) (msg string, err error) {
	ctx, span := m.span(ctx, "delete", actor)
	defer func() { m.done(span, "delete", err) }()

	o, err := m.owned(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if restock {
		if err := m.Stock.Release(ctx, reservedItems(o.Items)); err != nil {
			return "", err
		}
	}
	if err := m.Orders.Delete(ctx, o.ID); err != nil {
		if restock && m.Stock.Compensate {
			_, rerr := m.Stock.Reserve(ctx, reservedItems(o.Items))
			m.undo("re-reserve after failed delete", rerr, o.ID)
		}
		return "", err
	}

	p := payloadOf(o)
	p.PreviousStatus = o.Status
	p.Restocked = restock
	m.Events.Publish(ctx, Event{Type: EventOrderDeleted, Payload: p})
	if restock {
		return "order cancelled", nil
	}
	return "order deleted", nil
}

func (m *Manager) undo(what string, err error, orderID string) {
	if err != nil {
		m.Logger.Error("stock compensation failed", zap.String("step", what), zap.String("order_id", orderID), zap.Error(err))
	}
}

// Order returns an order the actor owns.
func (m *Manager) Order(ctx context.Context, actor access.Actor, id string) (Order, error) {
	return m.owned(ctx, actor, id)
}

// ListOrders returns every order. Store errors are logged and yield an empty list.
func (m *Manager) ListOrders(ctx context.Context) []Order {
	return m.list(ctx, Filter{})
}

func (m *Manager) ListSellerOrders(ctx context.Context, actor access.Actor) []Order {
	return m.list(ctx, Filter{SellerID: actor.ID})
}

func (m *Manager) list(ctx context.Context, f Filter) []Order {
	list, err := m.Orders.List(ctx, f)
	if err != nil {
		m.Logger.Error("list orders", zap.String("seller_id", f.SellerID), zap.Error(err))
		return []Order{}
	}
	return list
}

// OrdersByStatus lists the actor's orders in status.
func (m *Manager) OrdersByStatus(ctx context.Context, actor access.Actor, status Status) ([]Order, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("unknown order status %q", status)
	}
	list, err := m.Orders.List(ctx, Filter{SellerID: actor.ID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	return list, nil
}
