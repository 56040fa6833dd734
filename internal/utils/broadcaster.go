package utils

import (
	"context"
	"sync"
)

// Broadcaster fans values out to subscribers. Each subscription is a finite
// stream: it ends when its context is cancelled or the broadcaster is closed,
// and a new Subscribe call starts a fresh one.
//
// A Broadcaster from NewBroadcaster never blocks Publish; a subscriber whose
// buffer is full misses the value. One from NewLosslessBroadcaster queues
// every value per subscriber until it is read or the subscription's context
// ends.
type Broadcaster[T any] struct {
	mu       sync.Mutex
	subs     map[uint64]*subscription[T]
	nextID   uint64
	buffer   int
	lossless bool
	closed   bool
	done     chan struct{}
}

type subscription[T any] struct {
	out chan T

	// lossless only; pending is guarded by Broadcaster.mu
	pending []T
	wake    chan struct{}
}

// NewBroadcaster creates a Broadcaster whose subscriber channels hold up to
// buffer pending values. Values that do not fit are dropped.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster[T]{
		subs:   make(map[uint64]*subscription[T]),
		buffer: buffer,
		done:   make(chan struct{}),
	}
}

// NewLosslessBroadcaster creates a Broadcaster that never drops a value for
// a live subscriber. Values published before Close are still delivered after
// it, as long as the subscriber keeps reading.
func NewLosslessBroadcaster[T any](buffer int) *Broadcaster[T] {
	b := NewBroadcaster[T](buffer)
	b.lossless = true
	return b
}

// Subscribe returns a channel receiving every value published after the call.
// The channel is closed when ctx is done or the broadcaster is closed.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscription[T]{out: make(chan T, b.buffer)}
	if b.lossless {
		s.wake = make(chan struct{}, 1)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.out)
		return s.out
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	if b.lossless {
		go b.pump(ctx, id, s)
		return s.out
	}

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-b.done:
		}
	}()

	return s.out
}

func (b *Broadcaster[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(s.out)
	}
}

// pump moves queued values of one lossless subscription to its channel. It
// owns the channel and closes it on return.
func (b *Broadcaster[T]) pump(ctx context.Context, id uint64, s *subscription[T]) {
	defer close(s.out)
	defer func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()

	for {
		b.mu.Lock()
		batch := s.pending
		s.pending = nil
		b.mu.Unlock()

		for _, v := range batch {
			select {
			case s.out <- v:
			case <-ctx.Done():
				return
			}
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-s.wake:
		case <-ctx.Done():
			return
		case <-b.done:
			b.mu.Lock()
			flushed := len(s.pending) == 0
			b.mu.Unlock()
			if flushed {
				return
			}
		}
	}
}

// Publish hands v to every subscriber and returns how many accepted it. A
// lossless broadcaster accepts for every live subscriber.
func (b *Broadcaster[T]) Publish(v T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for _, s := range b.subs {
		if b.lossless {
			s.pending = append(s.pending, v)
			select {
			case s.wake <- struct{}{}:
			default:
			}
			delivered++
			continue
		}

		select {
		case s.out <- v:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Later Subscribe calls return closed channels.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	if b.lossless {
		// each pump flushes what is queued, then closes its channel
		return
	}
	for id, s := range b.subs {
		delete(b.subs, id)
		close(s.out)
	}
}
