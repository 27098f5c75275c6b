// Package queue serializes register commands onto a single worker.
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/pos-register/internal/obs"
	"github.com/fairyhunter13/pos-register/internal/register"
)

var (
	// ErrShuttingDown is returned once intake has been closed.
	ErrShuttingDown = errors.New("register is shutting down")
	// ErrBacklogFull is returned when the backlog already holds the maximum
	// number of commands. Callers may retry later.
	ErrBacklogFull = errors.New("register backlog full")
)

// Job is one queued command together with the channel its result goes to.
type Job struct {
	Seq   uint64
	Cmd   register.Command
	reply chan Result
}

// Stats is a point-in-time view of the queue counters.
type Stats struct {
	Enqueued  uint64
	Processed uint64
	Shed      uint64
	Backlog   int
	Depth     int
	Saturated bool
}

// Queue hands jobs to the worker in the order they were accepted. Accepted
// jobs wait in a backlog of at most maxBacklog entries; a broker goroutine
// moves them into the buffered output channel.
type Queue struct {
	mu         sync.Mutex
	backlog    []Job
	lastSeq    uint64
	maxBacklog int

	notify    chan struct{}
	out       chan Job
	closed    atomic.Bool
	saturated atomic.Bool

	enqueued  atomic.Uint64
	processed atomic.Uint64
	shed      atomic.Uint64
}

// New creates a Queue. outBuffer sizes the channel the worker reads from;
// maxBacklog caps waiting jobs, zero or less meaning no cap.
func New(outBuffer, maxBacklog int) *Queue {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Queue{
		maxBacklog: maxBacklog,
		notify:     make(chan struct{}, 1),
		out:        make(chan Job, outBuffer),
	}
}

// Start runs the broker until ctx is done.
func (q *Queue) Start(ctx context.Context) {
	go q.broker(ctx)
}

func (q *Queue) broker(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.flush()
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

// flush moves as many backlog jobs as fit into the output channel and
// clears the saturation flag once the backlog has room again.
func (q *Queue) flush() {
	q.mu.Lock()
	for len(q.backlog) > 0 && len(q.out) < cap(q.out) {
		q.out <- q.backlog[0]
		q.backlog[0] = Job{}
		q.backlog = q.backlog[1:]
	}
	room := q.maxBacklog <= 0 || len(q.backlog) < q.maxBacklog
	size := len(q.backlog)
	q.mu.Unlock()

	if room && q.saturated.CompareAndSwap(true, false) {
		obs.Logger.Info("queue_backpressure_released", "backlog_size", size)
	}
}

// Enqueue accepts j and stamps it with the next sequence number. Sequence
// order equals delivery order because both are decided under the same lock.
func (q *Queue) Enqueue(j Job) (uint64, error) {
	if q.closed.Load() {
		return 0, ErrShuttingDown
	}
	q.mu.Lock()
	if q.maxBacklog > 0 && len(q.backlog) >= q.maxBacklog {
		size := len(q.backlog)
		q.mu.Unlock()
		q.shed.Add(1)
		if q.saturated.CompareAndSwap(false, true) {
			obs.Logger.Warn("queue_backpressure", "backlog_size", size, "max_backlog", q.maxBacklog)
		}
		return 0, ErrBacklogFull
	}
	q.lastSeq++
	j.Seq = q.lastSeq
	q.backlog = append(q.backlog, j)
	q.enqueued.Add(1)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return j.Seq, nil
}

// Out exposes the output channel of jobs.
func (q *Queue) Out() <-chan Job { return q.out }

// BacklogSize returns the number of accepted jobs not yet handed to Out.
func (q *Queue) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// MarkProcessed records that the worker finished a job.
func (q *Queue) MarkProcessed() { q.processed.Add(1) }

// Stats returns the current counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	backlog := len(q.backlog)
	depth := backlog + len(q.out)
	q.mu.Unlock()
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Processed: q.processed.Load(),
		Shed:      q.shed.Load(),
		Backlog:   backlog,
		Depth:     depth,
		Saturated: q.saturated.Load(),
	}
}

// Idle reports whether every accepted job has been processed.
func (s Stats) Idle() bool {
	return s.Depth == 0 && s.Enqueued == s.Processed
}

// CloseIntake makes every later Enqueue fail with ErrShuttingDown.
func (q *Queue) CloseIntake() { q.closed.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (q *Queue) IsShuttingDown() bool { return q.closed.Load() }
