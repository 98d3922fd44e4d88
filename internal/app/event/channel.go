package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Dispatcher runs fn on the context the embedding application wants deliveries on.
// It must run fn exactly once and may block until fn returns.
type Dispatcher func(fn func())

// Inline runs deliveries on the channel's own worker goroutine.
func Inline(fn func()) { fn() }

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

type envelope[T any] struct {
	event   T
	maxID   uint64
	barrier chan struct{}
}

// Channel is one ordered event stream. A single worker drains the queue, so
// subscribers see events in publish order and each event at most once.
type Channel[T any] struct {
	name     string
	dispatch Dispatcher
	tracker  *tracker

	mu     sync.Mutex
	subs   []subscriber[T]
	nextID uint64
	queue  []envelope[T]
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newChannel[T any](name string, dispatch Dispatcher, tr *tracker) *Channel[T] {
	if dispatch == nil {
		dispatch = Inline
	}
	c := &Channel[T]{
		name:     name,
		dispatch: dispatch,
		tracker:  tr,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Channel[T]) Name() string { return c.name }

// Subscribe registers fn for events published after this call.
func (c *Channel[T]) Subscribe(fn func(T)) *Subscription {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return &Subscription{}
	}
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.mu.Unlock()

	sub := &Subscription{channel: c.name}
	sub.cancel = func() { c.remove(id) }
	if c.tracker != nil {
		c.tracker.add(sub)
	}
	return sub
}

func (c *Channel[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount is the number of live subscriptions.
func (c *Channel[T]) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Publish enqueues ev and returns without waiting for subscribers.
// Publishing on a closed channel is a no-op.
func (c *Channel[T]) Publish(ev T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, envelope[T]{event: ev, maxID: c.nextID})
	c.mu.Unlock()
	c.signal()
}

// Sync blocks until everything published before the call has been delivered
// or the channel is closed.
func (c *Channel[T]) Sync() {
	barrier := make(chan struct{})
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, envelope[T]{barrier: barrier})
	c.mu.Unlock()
	c.signal()
	select {
	case <-barrier:
	case <-c.done:
	}
}

func (c *Channel[T]) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.subs = nil
	pending := c.queue
	c.queue = nil
	c.mu.Unlock()
	for _, env := range pending {
		if env.barrier != nil {
			close(env.barrier)
		}
	}
	close(c.done)
}

func (c *Channel[T]) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Channel[T]) run() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}
		for {
			env, ok := c.next()
			if !ok {
				break
			}
			if env.barrier != nil {
				close(env.barrier)
				continue
			}
			c.deliver(env)
		}
	}
}

func (c *Channel[T]) next() (envelope[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) == 0 {
		return envelope[T]{}, false
	}
	env := c.queue[0]
	c.queue[0] = envelope[T]{}
	c.queue = c.queue[1:]
	return env, true
}

func (c *Channel[T]) deliver(env envelope[T]) {
	for _, sub := range c.snapshot(env.maxID) {
		if !c.stillSubscribed(sub.id) {
			continue
		}
		sub := sub // per-iteration copy; go 1.21 loop variables are shared
		c.dispatch(func() { c.safeCall(sub, env.event) })
	}
}

func (c *Channel[T]) snapshot(maxID uint64) []subscriber[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]subscriber[T], 0, len(c.subs))
	for _, s := range c.subs {
		if s.id <= maxID {
			out = append(out, s)
		}
	}
	return out
}

func (c *Channel[T]) stillSubscribed(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	for _, s := range c.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (c *Channel[T]) safeCall(sub subscriber[T], ev T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("module", "app.event").
				Str("channel", c.name).
				Interface("panic", r).
				Msg("subscriber panicked")
		}
	}()
	sub.fn(ev)
}
