package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
)

// Config holds notifier configuration
type Config struct {
	WorkerCount int // default: 1
	QueueSize   int // default: 256
}

// ChangeNotifier fans committed reconciliation and payroll changes out to SSE
// subscribers of the affected branch and to subscribers of every branch.
type ChangeNotifier struct {
	hub    *sse.Hub
	config Config

	queue  chan reconciliation.ChangeEvent
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

var _ reconciliation.Notifier = (*ChangeNotifier)(nil)

// NewChangeNotifier creates a notifier with background publishing workers
func NewChangeNotifier(hub *sse.Hub, cfg Config) *ChangeNotifier {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}

	n := &ChangeNotifier{
		hub:    hub,
		config: cfg,
		queue:  make(chan reconciliation.ChangeEvent, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		n.wg.Add(1)
		go n.worker()
	}

	slog.Info("change notifier started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return n
}

func (n *ChangeNotifier) worker() {
	defer n.wg.Done()

	for {
		select {
		case event := <-n.queue:
			n.publish(event)
		case <-n.stopCh:
			// drain what is already queued
			for {
				select {
				case event := <-n.queue:
					n.publish(event)
				default:
					return
				}
			}
		}
	}
}

// Notify implements reconciliation.Notifier. It never blocks the caller.
func (n *ChangeNotifier) Notify(ctx context.Context, event reconciliation.ChangeEvent) {
	select {
	case n.queue <- event:
	default:
		// Queue full, publish directly
		slog.WarnContext(ctx, "change notifier queue full, publishing inline", "kind", event.Kind)
		n.publish(event)
	}
}

// Subscribe streams events for one branch; sse.AllTopics receives every branch.
func (n *ChangeNotifier) Subscribe(branchID string) (<-chan sse.Event, func()) {
	ch, cleanup := n.hub.Subscribe(branchID)
	return ch, cleanup
}

func (n *ChangeNotifier) publish(event reconciliation.ChangeEvent) {
	n.hub.PublishToMany([]string{event.BranchID, sse.AllTopics}, sse.Event{
		Event: string(event.Kind),
		Data:  event,
	})
}

// Close stops the workers after the queue has been drained
func (n *ChangeNotifier) Close() {
	n.once.Do(func() {
		close(n.stopCh)
		n.wg.Wait()
		slog.Info("change notifier stopped", "subscribers", n.hub.TotalSubscribers())
	})
}
