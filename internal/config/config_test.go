package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STOCK_ATOMIC", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()

	assert.Equal(t, ":4000", cfg.HTTPAddr)
	assert.True(t, cfg.StockAtomic)
	assert.True(t, cfg.StockCompensate)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOCK_ATOMIC", "false")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2 ,,")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")
	t.Setenv("ANALYTICS_WORKERS", "-3")

	cfg := Load()

	assert.False(t, cfg.StockAtomic)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.AnalyticsCacheTTL)
	assert.Equal(t, 4, cfg.AnalyticsWorkers)
}
