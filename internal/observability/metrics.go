package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_stock_reservations_total",
		Help: "Reserve calls by result (ok, insufficient, invalid, error).",
	}, []string{"result"})

	StockUnitsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_stock_units_total",
		Help: "Units decremented or restored on the catalog.",
	}, []string{"direction"})

	OrderOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_order_operations_total",
		Help: "Order lifecycle operations by outcome code.",
	}, []string{"operation", "code"})
)
