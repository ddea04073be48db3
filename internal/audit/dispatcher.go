package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// envelope pairs an event with the request metadata context it was emitted
// under, so sinks observe the same context values the Engine saw.
type envelope struct {
	ctx   context.Context
	event Event
}

// Dispatcher asynchronously forwards engine events to a sink. Events queue
// on a buffered channel; the request's context values travel with each
// event, detached from cancellation, since delivery outlives the request.
//
// With DropIfFull a full buffer drops the event and counts it; otherwise
// Emit blocks until there is room or the caller's context ends. Close drains
// the buffer before returning.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool
	ch         chan envelope
	done       chan struct{}
	wg         sync.WaitGroup
	dropped    atomic.Uint64
	closed     atomic.Bool
	closeOnce  sync.Once
}

// NewDispatcher starts the forwarding goroutine. It returns nil when the
// config disables auditing; a nil Dispatcher ignores all calls.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		ch:         make(chan envelope, cfg.BufferSize),
		done:       make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case env := <-d.ch:
			d.sink.Emit(env.ctx, env.event)
		case <-d.done:
			for {
				select {
				case env := <-d.ch:
					d.sink.Emit(env.ctx, env.event)
				default:
					return
				}
			}
		}
	}
}

// Emit queues an event for delivery. The context's values are forwarded to
// the sink; its cancellation is not, because the sink runs after Emit
// returns.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	env := envelope{ctx: context.WithoutCancel(ctx), event: event}

	if d.dropIfFull {
		select {
		case d.ch <- env:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- env:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops accepting events, drains the buffer through the sink, and
// waits for the forwarding goroutine to exit.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
