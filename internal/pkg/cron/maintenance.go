package cron

import (
	"context"
	"log/slog"
	"time"
)

// Evictor drops per-key state that has been idle for longer than idle.
type Evictor interface {
	Evict(idle time.Duration) int
}

// EvictIdleJob keeps per-user rate limiter state from growing without bound.
func EvictIdleJob(name string, e Evictor, interval, idle time.Duration) Job {
	return Job{
		Name:     name,
		Interval: interval,
		Fn: func(ctx context.Context) error {
			if n := e.Evict(idle); n > 0 {
				slog.DebugContext(ctx, "evicted idle entries", "job", name, "count", n)
			}
			return nil
		},
	}
}
