// Package poller refreshes a value on a fixed interval while it is visible.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchFunc loads fresh value, it must return when ctx is done
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Ticker delivers ticks until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t timeTicker) Stop() {
	t.t.Stop()
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Option configures Poller
type Option[T any] func(p *Poller[T])

// WithLogger sets logger for failed fetches
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(p *Poller[T]) {
		p.logger = logger
	}
}

// WithOnUpdate sets callback invoked after every successful fetch
func WithOnUpdate[T any](fn func(T)) Option[T] {
	return func(p *Poller[T]) {
		p.onUpdate = fn
	}
}

// WithTicker replaces ticker factory
func WithTicker[T any](newTicker func(time.Duration) Ticker) Option[T] {
	return func(p *Poller[T]) {
		p.newTicker = newTicker
	}
}

// Poller fetches value immediately and then at a fixed rate.
// Every fetch runs in its own goroutine, so a slow fetch never delays the next tick.
// A result older than the latest applied one is discarded.
type Poller[T any] struct {
	name      string
	interval  time.Duration
	fetch     FetchFunc[T]
	logger    *zap.Logger
	onUpdate  func(T)
	newTicker func(time.Duration) Ticker

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	stopTick func()
	started  bool
	stopped  bool
	visible  bool
	issued   uint64
	applied  uint64
	latest   T
	hasValue bool
	lastErr  error

	// deliverMu serializes onUpdate calls
	deliverMu sync.Mutex

	wg sync.WaitGroup
}

// New creates Poller, name is used in logs
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		name:      name,
		interval:  interval,
		fetch:     fetch,
		logger:    zap.NewNop(),
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start does the initial fetch and starts ticking. Poller starts visible.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true
	p.visible = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.fetchLocked()
	p.startTickerLocked()
}

// SetVisible stops ticking when hidden. Becoming visible replaces any
// running ticker, fetches once immediately and starts a fresh ticker.
func (p *Poller[T]) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.stopped {
		return
	}

	p.stopTickerLocked()
	p.visible = visible
	if !visible {
		return
	}

	p.fetchLocked()
	p.startTickerLocked()
}

// Stop stops ticking and cancels in-flight fetches. It waits for them to return.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.stopTickerLocked()
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
}

// Latest returns last successfully fetched value
func (p *Poller[T]) Latest() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.hasValue
}

// Err returns error of the last failed fetch, reset by a successful one
func (p *Poller[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Visible reports whether poller is ticking
func (p *Poller[T]) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible && !p.stopped
}

func (p *Poller[T]) startTickerLocked() {
	ticker := p.newTicker(p.interval)
	tickCtx, tickCancel := context.WithCancel(p.ctx)
	p.stopTick = func() {
		tickCancel()
		ticker.Stop()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C():
				p.mu.Lock()
				if tickCtx.Err() == nil {
					p.fetchLocked()
				}
				p.mu.Unlock()
			}
		}
	}()
}

func (p *Poller[T]) stopTickerLocked() {
	if p.stopTick != nil {
		p.stopTick()
		p.stopTick = nil
	}
}

func (p *Poller[T]) fetchLocked() {
	p.issued++
	seq := p.issued
	ctx := p.ctx

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		v, err := p.fetch(ctx)

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		if err != nil {
			p.lastErr = err
			p.mu.Unlock()
			p.logger.Warn("poll failed", zap.String("poller", p.name), zap.Error(err))
			return
		}
		if seq < p.applied {
			p.mu.Unlock()
			return
		}
		p.applied = seq
		p.latest = v
		p.hasValue = true
		p.lastErr = nil
		onUpdate := p.onUpdate
		p.mu.Unlock()

		if onUpdate == nil {
			return
		}

		p.deliverMu.Lock()
		defer p.deliverMu.Unlock()

		// a newer result may have been applied while waiting
		p.mu.Lock()
		current := seq == p.applied && ctx.Err() == nil
		p.mu.Unlock()
		if current {
			onUpdate(v)
		}
	}()
}
