package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
)

// Async decouples a slow sink (network-bound stores) from the turn loop.
// Events are dropped, not queued without bound, when the buffer is full.
type Async struct {
	inner   Sink
	ch      chan Event
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(inner Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = 256
	}
	a := &Async{
		inner: inner,
		ch:    make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *Async) Record(_ context.Context, ev Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.ch <- ev:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the buffer was full
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events and waits for buffered ones to be written
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	<-a.done
}

func (a *Async) loop() {
	defer close(a.done)
	// Events outlive the request that produced them.
	ctx := context.Background()
	for ev := range a.ch {
		a.inner.Record(ctx, ev)
	}
}
