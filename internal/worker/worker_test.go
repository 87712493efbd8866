package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rookgm/gofood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []models.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.OrderEvent(nil), p.events...)
}

func TestEventDispatcher_Run(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewEventDispatcher(pub, 4, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Enqueue(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o1"})
	d.Enqueue(models.OrderEvent{Type: models.EventOrderFinished, OrderID: "o1"})

	require.Eventually(t, func() bool { return len(pub.published()) == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	got := pub.published()
	assert.Equal(t, models.EventOrderCreated, got[0].Type)
	assert.Equal(t, models.EventOrderFinished, got[1].Type)
}

func TestEventDispatcher_EnqueueFullQueueDrops(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewEventDispatcher(pub, 1, zap.NewNop())

	d.Enqueue(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o1"})
	d.Enqueue(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	got := pub.published()
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].OrderID)
}

func TestEventDispatcher_PublishErrorKeepsRunning(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewEventDispatcher(pub, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Enqueue(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o1"})
	d.Enqueue(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o2"})

	require.Eventually(t, func() bool { return len(pub.published()) == 2 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
