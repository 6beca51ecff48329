package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-sales-orders/internal/kafka"
	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Invalidator drops cached rankings.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Projector consumes order lifecycle events and invalidates the cached
// rankings whenever a completed order appears, changes or disappears.
type Projector struct {
	Cache Invalidator
	// Redis dedups redelivered events; nil disables dedup.
	Redis       *redis.Client
	ServiceName string
	Logger      *zap.Logger
}

// HandleOrderEvent is installed as the consumer handler.
func (p *Projector) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message; commit and move on
		p.Logger.Warn("undecodable envelope", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	dedupKey := fmt.Sprintf(redisx.KeyDedup, p.ServiceName, env.EventID)
	if p.Redis != nil {
		first, err := redisx.MarkOnce(ctx, p.Redis, dedupKey, redisx.TTLDedup)
		if err == nil && !first {
			return nil
		}
	}

	payload, err := kafkax.UnwrapPayload[orders.OrderEventPayload](env.Payload)
	if err != nil {
		p.Logger.Warn("undecodable payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}
	if !payload.AffectsRankings() {
		return nil
	}
	if err := p.Cache.Invalidate(ctx); err != nil {
		// unmark so the redelivered message is processed again
		p.forget(ctx, dedupKey)
		return fmt.Errorf("invalidate rankings: %w", err)
	}
	p.Logger.Debug("rankings invalidated",
		zap.String("event_type", env.EventType), zap.String("order_id", payload.OrderID))
	return nil
}

func (p *Projector) forget(ctx context.Context, key string) {
	if p.Redis == nil {
		return
	}
	if err := redisx.Forget(ctx, p.Redis, key); err != nil {
		p.Logger.Warn("dedup key not released", zap.String("key", key), zap.Error(err))
	}
}
