package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caresight/caresight-backend/internal/platform/envutil"
	"github.com/caresight/caresight-backend/internal/platform/logger"
)

// Metrics keeps running AI-call counters in redis so operators can watch
// volume, failure rate, and token spend without querying the audit table.
// A nil *Metrics is a valid no-op receiver.
type Metrics struct {
	log *logger.Logger
	rdb *redis.Client
}

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func NewMetrics(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	addr := envutil.String("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Metrics redis unreachable, AI call counters disabled", "addr", addr, "error", err)
		return nil
	}

	return &Metrics{
		log: log.With("service", "Metrics"),
		rdb: rdb,
	}
}

func (m *Metrics) key(suffix string) string {
	return "caresight:ai_calls:" + suffix
}

// RecordAICall increments per-process-type counters. Counter failures are
// logged and swallowed; metrics never affect the request path.
func (m *Metrics) RecordAICall(ctx context.Context, processType string, success bool, tokens int) {
	if m == nil {
		return
	}
	pipe := m.rdb.Pipeline()
	pipe.Incr(ctx, m.key("total"))
	pipe.Incr(ctx, m.key(fmt.Sprintf("type:%s", processType)))
	if !success {
		pipe.Incr(ctx, m.key("failed"))
	}
	if tokens > 0 {
		pipe.IncrBy(ctx, m.key("tokens"), int64(tokens))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		m.log.Warn("Failed to record AI call counters", "error", err)
	}
}

// Snapshot reads the headline counters for the metrics endpoint.
func (m *Metrics) Snapshot(ctx context.Context) map[string]int64 {
	if m == nil {
		return nil
	}
	out := map[string]int64{}
	for _, name := range []string{"total", "failed", "tokens"} {
		val, err := m.rdb.Get(ctx, m.key(name)).Int64()
		if err != nil && err != redis.Nil {
			m.log.Warn("Failed to read AI call counter", "counter", name, "error", err)
			continue
		}
		out[name] = val
	}
	return out
}
