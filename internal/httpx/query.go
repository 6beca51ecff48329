package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/analytics"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/auth"
	"github.com/ariefcatur/go-sales-orders/internal/catalog"
	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/ariefcatur/go-sales-orders/internal/httpx")

// API exposes the named query and mutation operations on POST /query.
type API struct {
	Catalog   *catalog.Service
	Parties   *party.Service
	Orders    *orders.Manager
	Analytics *analytics.Aggregator
	Auth      *auth.Provider
	Logger    *zap.Logger

	once sync.Once
	ops  map[string]operation
}

type operation struct {
	// authenticated operations fail with UNAUTHENTICATED when no actor is set
	authenticated bool
	run           func(ctx context.Context, actor access.Actor, vars json.RawMessage) (any, error)
}

type idVars struct {
	ID string `json:"id"`
}

type message struct {
	Message string `json:"message"`
}

type token struct {
	Token string `json:"token"`
}

// decode fills T from the operation variables; absent variables leave T zero.
func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, apperr.Invalid("bad variables: %v", err)
	}
	return v, nil
}

// public and private adapt typed handlers to the operation table.
func public[T any](fn func(ctx context.Context, v T) (any, error)) operation {
	return operation{run: func(ctx context.Context, _ access.Actor, raw json.RawMessage) (any, error) {
		v, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, v)
	}}
}

func private[T any](fn func(ctx context.Context, actor access.Actor, v T) (any, error)) operation {
	return operation{authenticated: true, run: func(ctx context.Context, actor access.Actor, raw json.RawMessage) (any, error) {
		v, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, actor, v)
	}}
}

func (a *API) operations() map[string]operation {
	a.once.Do(a.register)
	return a.ops
}

func (a *API) register() {
	a.ops = map[string]operation{
		// queries
		"obtenerUsuario": private(func(_ context.Context, actor access.Actor, _ struct{}) (any, error) {
			return actor, nil
		}),
		"obtenerProductos": public(func(ctx context.Context, _ struct{}) (any, error) {
			return a.Catalog.List(ctx), nil
		}),
		"obtenerProducto": public(func(ctx context.Context, v idVars) (any, error) {
			return a.Catalog.Get(ctx, v.ID)
		}),
		"buscarProducto": public(func(ctx context.Context, v struct {
			Texto string `json:"texto"`
		}) (any, error) {
			return a.Catalog.Search(ctx, v.Texto), nil
		}),
		"obtenerClientes": public(func(ctx context.Context, _ struct{}) (any, error) {
			return a.Parties.ListClients(ctx), nil
		}),
		"obtenerClientesVendedor": private(func(ctx context.Context, actor access.Actor, _ struct{}) (any, error) {
			return a.Parties.ListSellerClients(ctx, actor), nil
		}),
		"obtenerCliente": private(func(ctx context.Context, actor access.Actor, v idVars) (any, error) {
			return a.Parties.Client(ctx, actor, v.ID)
		}),
		"obtenerPedidos": public(func(ctx context.Context, _ struct{}) (any, error) {
			return a.Orders.ListOrders(ctx), nil
		}),
		"obtenerPedidosVendedor": private(func(ctx context.Context, actor access.Actor, _ struct{}) (any, error) {
			return a.Orders.ListSellerOrders(ctx, actor), nil
		}),
		"obtenerPedido": private(func(ctx context.Context, actor access.Actor, v idVars) (any, error) {
			return a.Orders.Order(ctx, actor, v.ID)
		}),
		"obtenerPedidosEstado": private(func(ctx context.Context, actor access.Actor, v struct {
			Estado orders.Status `json:"estado"`
		}) (any, error) {
			return a.Orders.OrdersByStatus(ctx, actor, v.Estado)
		}),
		"mejoresClientes": public(func(ctx context.Context, _ struct{}) (any, error) {
			return a.Analytics.TopClients(ctx)
		}),
		"mejoresVendedores": public(func(ctx context.Context, _ struct{}) (any, error) {
			return a.Analytics.TopSellers(ctx)
		}),

		// mutations
		"nuevoUsuario": public(func(ctx context.Context, v struct {
			Input auth.RegisterInput `json:"input"`
		}) (any, error) {
			return a.Auth.Register(ctx, v.Input)
		}),
		"autenticarUsuario": public(func(ctx context.Context, v struct {
			Input auth.LoginInput `json:"input"`
		}) (any, error) {
			t, err := a.Auth.Authenticate(ctx, v.Input)
			if err != nil {
				return nil, err
			}
			return token{Token: t}, nil
		}),
		"nuevoProducto": public(func(ctx context.Context, v struct {
			Input catalog.ProductInput `json:"input"`
		}) (any, error) {
			return a.Catalog.Create(ctx, v.Input)
		}),
		"actualizarProducto": public(func(ctx context.Context, v struct {
			ID    string               `json:"id"`
			Input catalog.ProductInput `json:"input"`
		}) (any, error) {
			return a.Catalog.Update(ctx, v.ID, v.Input)
		}),
		"eliminarProducto": public(func(ctx context.Context, v idVars) (any, error) {
			return wrap(a.Catalog.Delete(ctx, v.ID))
		}),
		"nuevoCliente": private(func(ctx context.Context, actor access.Actor, v struct {
			Input party.ClientInput `json:"input"`
		}) (any, error) {
			return a.Parties.CreateClient(ctx, actor, v.Input)
		}),
		"actualizarCliente": private(func(ctx context.Context, actor access.Actor, v struct {
			ID    string            `json:"id"`
			Input party.ClientInput `json:"input"`
		}) (any, error) {
			return a.Parties.UpdateClient(ctx, actor, v.ID, v.Input)
		}),
		"eliminarCliente": private(func(ctx context.Context, actor access.Actor, v idVars) (any, error) {
			return wrap(a.Parties.DeleteClient(ctx, actor, v.ID))
		}),
		"nuevoPedido": private(func(ctx context.Context, actor access.Actor, v struct {
			Input orders.CreateInput `json:"input"`
		}) (any, error) {
			return a.Orders.CreateOrder(ctx, actor, v.Input)
		}),
		"actualizarPedido": private(func(ctx context.Context, actor access.Actor, v struct {
			ID    string            `json:"id"`
			Input orders.AmendInput `json:"input"`
		}) (any, error) {
			return a.Orders.AmendOrder(ctx, actor, v.ID, v.Input)
		}),
		"actualizarEstado": private(func(ctx context.Context, actor access.Actor, v struct {
			ID     string        `json:"id"`
			Estado orders.Status `json:"estado"`
		}) (any, error) {
			return a.Orders.UpdateStatus(ctx, actor, v.ID, v.Estado)
		}),
		"eliminarPedido": private(func(ctx context.Context, actor access.Actor, v struct {
			ID        string `json:"id"`
			Cancelado bool   `json:"cancelado"`
		}) (any, error) {
			return wrap(a.Orders.DeleteOrder(ctx, actor, v.ID, v.Cancelado))
		}),
	}
}

func wrap(msg string, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return message{Message: msg}, nil
}

// Query dispatches one named operation.
func (a *API) Query(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid json"))
		return
	}
	op, ok := a.operations()[req.Operation]
	if !ok {
		writeError(w, apperr.Invalid("unknown operation %q", req.Operation))
		return
	}

	ctx, span := tracer.Start(r.Context(), "query."+req.Operation)
	defer span.End()

	actor, authed := access.FromContext(ctx)
	if op.authenticated && !authed {
		writeError(w, fmt.Errorf("%s requires a token: %w", req.Operation, apperr.ErrUnauthenticated))
		return
	}
	span.SetAttributes(attribute.String("seller.id", actor.ID))

	data, err := op.run(ctx, actor, req.Variables)
	if err != nil {
		code := apperr.Code(err)
		span.SetStatus(codes.Error, code)
		if code == "INTERNAL" {
			a.Logger.Error("operation failed", zap.String("operation", req.Operation), zap.Error(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: data})
}
