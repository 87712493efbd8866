package worker

import (
	"context"
	"time"

	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 64
	publishTimeout   = 5 * time.Second
)

// Publisher sends order events to a broker
type Publisher interface {
	Publish(ctx context.Context, event models.OrderEvent) error
}

// EventDispatcher is worker publishes queued order events
type EventDispatcher struct {
	pub    Publisher
	queue  chan models.OrderEvent
	logger *zap.Logger
}

// NewEventDispatcher creates new event dispatcher, size <= 0 selects default queue size
func NewEventDispatcher(pub Publisher, size int, logger *zap.Logger) *EventDispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &EventDispatcher{
		pub:    pub,
		queue:  make(chan models.OrderEvent, size),
		logger: logger,
	}
}

// Enqueue queues event without blocking, the event is dropped if queue is full
func (ed *EventDispatcher) Enqueue(event models.OrderEvent) {
	select {
	case ed.queue <- event:
	default:
		ed.logger.Warn("event queue is full, dropping event",
			zap.String("type", event.Type),
			zap.String("order", event.OrderID))
	}
}

// Run publishes queued events until ctx is done, then flushes what is left
func (ed *EventDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ed.flush()
			ed.logger.Debug("event dispatcher is done")
			return
		case event := <-ed.queue:
			ed.publish(ctx, event)
		}
	}
}

func (ed *EventDispatcher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for {
		select {
		case event := <-ed.queue:
			ed.publish(ctx, event)
		default:
			return
		}
	}
}

func (ed *EventDispatcher) publish(ctx context.Context, event models.OrderEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := ed.pub.Publish(ctx, event); err != nil {
		ed.logger.Error("error publish order event",
			zap.String("type", event.Type),
			zap.String("order", event.OrderID),
			zap.Error(err))
		return
	}
	ed.logger.Debug("order event published", zap.String("type", event.Type), zap.String("order", event.OrderID))
}
