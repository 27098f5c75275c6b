// Package feedback carries fire-and-forget operator feedback signals
// (the beep on add, the clear sound on removal) to whatever plays them.
package feedback

import (
	"context"
	"sync/atomic"

	"github.com/fairyhunter13/pos-register/internal/obs"
)

// Signal is a payload-free feedback kind.
type Signal int

const (
	// Add is emitted when something was added or a line changed but survived.
	Add Signal = iota + 1
	// Remove is emitted when a line or the whole cart was removed.
	Remove
)

func (s Signal) String() string {
	switch s {
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Emitter receives signals. Implementations must not block.
type Emitter interface {
	Emit(Signal)
}

// Nop discards every signal.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(Signal) {}

// Channel is a buffered, non-blocking Emitter. Signals that do not fit in
// the buffer are dropped and counted.
type Channel struct {
	ch      chan Signal
	emitted atomic.Uint64
	dropped atomic.Uint64
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 16
	}
	return &Channel{ch: make(chan Signal, buffer)}
}

// Emit implements Emitter.
func (c *Channel) Emit(s Signal) {
	select {
	case c.ch <- s:
		c.emitted.Add(1)
	default:
		c.dropped.Add(1)
	}
}

// Signals exposes the receive side for the consumer.
func (c *Channel) Signals() <-chan Signal { return c.ch }

// Metrics returns emitted and dropped counters.
func (c *Channel) Metrics() (emitted, dropped uint64) {
	return c.emitted.Load(), c.dropped.Load()
}

// Listen logs every signal until ctx is done. It stands in for the audio
// collaborator, which lives outside this service.
func (c *Channel) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-c.ch:
			obs.Logger.Debug("feedback_signal", "signal", s.String())
		}
	}
}
