package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/pos-register/internal/config"
	"github.com/fairyhunter13/pos-register/internal/feedback"
	"github.com/fairyhunter13/pos-register/internal/obs"
	"github.com/fairyhunter13/pos-register/internal/receipt"
	"github.com/fairyhunter13/pos-register/internal/register"
	"github.com/fairyhunter13/pos-register/internal/store"
)

// ErrSinkFailed wraps a receipt sink failure during Proceed.
var ErrSinkFailed = errors.New("receipt sink failed")

// Proceed prints the pending receipt and, once the sink confirms, completes
// the sale. It is handled by the Manager rather than register.Apply because
// it has a side effect.
type Proceed struct{}

func (Proceed) Name() string { return "proceed" }

// Result is what a caller of Do gets back: the state after the command and
// the outcome of applying it.
type Result struct {
	State   register.State
	Outcome register.Outcome
}

// Manager owns the register state. A single worker applies queued commands
// in order and publishes each resulting state to the store.
type Manager struct {
	cfg  config.Config
	q    *Queue
	st   *store.Store
	env  register.Env
	sink receipt.Sink
	fb   feedback.Emitter

	ctx    context.Context
	cancel context.CancelFunc

	applied  atomic.Uint64
	rejected atomic.Uint64
}

// NewManager constructs a Manager. A nil emitter discards feedback.
func NewManager(cfg config.Config, q *Queue, st *store.Store, env register.Env, sink receipt.Sink, fb feedback.Emitter) *Manager {
	if fb == nil {
		fb = feedback.Nop{}
	}
	return &Manager{cfg: cfg, q: q, st: st, env: env, sink: sink, fb: fb}
}

// Start begins processing in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx)
	go m.worker(m.ctx)
}

// Stop cancels the broker and the worker.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Do queues cmd and waits for its result. It fails fast with
// ErrShuttingDown or ErrBacklogFull when the queue refuses the command. If
// ctx ends first the command still runs; only the wait is abandoned.
func (m *Manager) Do(ctx context.Context, cmd register.Command) (Result, error) {
	j := Job{Cmd: cmd, reply: make(chan Result, 1)}
	if _, err := m.q.Enqueue(j); err != nil {
		return Result{}, err
	}
	select {
	case r := <-j.reply:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// worker drains jobs from the queue and updates the store.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-m.q.Out():
			j.reply <- m.process(ctx, j)
			m.q.MarkProcessed()
		}
	}
}

func (m *Manager) process(ctx context.Context, j Job) Result {
	start := time.Now()
	cur := m.st.Snapshot()

	var next register.State
	var out register.Outcome
	if _, ok := j.Cmd.(Proceed); ok {
		next, out = m.proceed(ctx, cur)
	} else {
		next, out = register.Apply(cur, j.Cmd, m.env)
	}

	if out.Changed {
		m.st.Replace(next)
	}
	for _, sig := range out.Signals {
		m.fb.Emit(sig)
	}

	if out.Err != nil {
		m.rejected.Add(1)
		obs.Logger.Info("command_rejected",
			"command", j.Cmd.Name(),
			"sequence", j.Seq,
			"phase", cur.Phase().String(),
			"error", out.Err.Error(),
		)
		return Result{State: cur, Outcome: out}
	}
	m.applied.Add(1)
	obs.Logger.Debug("command_applied",
		"command", j.Cmd.Name(),
		"sequence", j.Seq,
		"version", next.Version(),
		"changed", out.Changed,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return Result{State: next, Outcome: out}
}

// proceed hands the pending receipt to the sink and completes the sale only
// after the sink succeeds. On failure the sale stays submitted.
func (m *Manager) proceed(ctx context.Context, cur register.State) (register.State, register.Outcome) {
	r, ok := cur.Receipt()
	if !ok {
		return cur, register.Outcome{Err: register.ErrNoPendingReceipt}
	}
	if m.sink != nil {
		if err := m.sink.Print(ctx, r); err != nil {
			return cur, register.Outcome{Err: fmt.Errorf("%w: %v", ErrSinkFailed, err)}
		}
	}
	return register.Apply(cur, register.Complete{}, m.env)
}

// Snapshot returns the latest published state.
func (m *Manager) Snapshot() register.State { return m.st.Snapshot() }

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// IsShuttingDown reports whether new commands are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future commands.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueStats exposes the underlying queue counters.
func (m *Manager) QueueStats() Stats { return m.q.Stats() }

// CommandMetrics returns how many commands were applied and rejected.
func (m *Manager) CommandMetrics() (applied, rejected uint64) {
	return m.applied.Load(), m.rejected.Load()
}

// DrainUntil blocks until the queue is fully drained or context is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		if m.q.Stats().Idle() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
