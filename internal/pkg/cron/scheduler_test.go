package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingEvictor struct {
	calls atomic.Int32
	idle  time.Duration
}

func (c *countingEvictor) Evict(idle time.Duration) int {
	c.calls.Add(1)
	c.idle = idle
	return 1
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob(Job{Name: "a", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "a")
		return errors.New("ignored")
	}})
	s.AddJob(Job{Name: "b", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "b")
		return nil
	}})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestScheduler_StartStop(t *testing.T) {
	e := &countingEvictor{}
	s := NewScheduler()
	s.AddJob(EvictIdleJob("limiters", e, 5*time.Millisecond, time.Minute))

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return e.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	calls := e.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, e.calls.Load())
	assert.Equal(t, time.Minute, e.idle)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { NewScheduler().Stop() })
}
