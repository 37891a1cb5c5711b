// Package concurrency implements naftah's structured-concurrency runtime
// (spec §4.G/§5): tasks, channels, actors, scope regions, and the
// inheritable per-invocation context map. It is a leaf package — it knows
// nothing about value.Value or the AST — so the evaluator wraps its types
// as naftah Values the way internal/temporal wraps calendar math as
// value.Value without temporal importing value back.
//
// Grounded on the teacher's WorkerPool/TaskQueue shape
// (goroutine-per-worker, context.Context cancellation, channel-backed job
// queues): the same goroutine-plus-channel-plus-context idiom is reused
// here, generalized from a fixed job-type switch to a single-shot Task
// wrapping an arbitrary thunk.
package concurrency

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is a Task's lifecycle stage.
type State int

const (
	Pending State = iota
	Running
	Completed
	Failed
	CancelledState
)

// Task wraps a single-shot unit of work spawned by `spawn expr` (spec
// §4.G). Respawning an already-started Task is a caller error
// (AlreadySpawned), reported by Spawn below, not by Task itself.
type Task struct {
	ID      string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	started bool
	state   State
	result  interface{}
	err     error
}

// NewTask allocates a Task bound to parent's cancellation (nil parent means
// root). The task does not begin running until Spawn starts it.
func NewTask(parent context.Context) *Task {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		ID:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  Pending,
	}
}

// ErrAlreadySpawned is returned by Spawn on a Task that already ran once.
var ErrAlreadySpawned = &taskError{"task already spawned"}

// ErrCancelled is returned by Await on a Task whose context was cancelled.
var ErrCancelled = &taskError{"task cancelled"}

// ErrTimeout is returned by Get when duration elapses before completion.
var ErrTimeout = &taskError{"task timed out"}

// ErrChannelClosed is returned by Send on a closed Channel.
var ErrChannelClosed = &taskError{"channel closed"}

type taskError struct{ msg string }

func (e *taskError) Error() string { return e.msg }

// Spawn starts fn on its own goroutine. fn receives the Task's
// cancellation context so it can check for cooperative cancellation at
// its own suspension points (loop iterations, nested awaits).
func (t *Task) Spawn(fn func(ctx context.Context) (interface{}, error)) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadySpawned
	}
	t.started = true
	t.state = Running
	t.mu.Unlock()

	go func() {
		result, err := fn(t.ctx)
		t.mu.Lock()
		t.result, t.err = result, err
		if err != nil {
			t.state = Failed
		} else {
			t.state = Completed
		}
		t.mu.Unlock()
		close(t.done)
	}()
	return nil
}

// Await blocks the caller until the task completes, is cancelled, or ctx
// (the awaiting side's own cancellation, e.g. an enclosing cancelled
// scope) is done first.
func (t *Task) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.state == CancelledState {
			return nil, ErrCancelled
		}
		return t.result, t.err
	case <-t.ctx.Done():
		select {
		case <-t.done:
			t.mu.Lock()
			defer t.mu.Unlock()
			return t.result, t.err
		default:
		}
		t.mu.Lock()
		t.state = CancelledState
		t.mu.Unlock()
		return nil, ErrCancelled
	case <-ctx.Done():
		return nil, ErrCancelled
	}
}

// Get awaits with a timeout. Unlike Cancel, a Get timeout does not cancel
// the underlying task (spec §4.G: "Timeouts ... throw Timeout without
// cancelling the task").
func (t *Task) Get(d time.Duration) (interface{}, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result, t.err
	case <-time.After(d):
		return nil, ErrTimeout
	}
}

// Cancel cooperatively requests the task stop; the task only actually
// observes this at its next checked suspension point.
func (t *Task) Cancel() { t.cancel() }

// Done reports whether the task has finished (successfully, with an
// error, or by cancellation).
func (t *Task) Done() <-chan struct{} { return t.done }

// State reports the task's current lifecycle stage.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Context returns the task's own cancellation context, handed to nested
// spawns so cancelling a parent cancels every descendant (spec §4.G
// context propagation).
func (t *Task) Context() context.Context { return t.ctx }

// ---------------------------------------------------------------------
// Inheritable context map (spec §4.G "Context propagation")
// ---------------------------------------------------------------------

// SlotPolicy controls how one named context slot is inherited by a
// spawned child (spec §4.G: "(a) optionally uses a supplier for a fresh
// value per child, (b) may deep-copy via a supplied copy function, (c) if
// the value is cloneable advertises a clone method; else the parent
// reference is shared").
type SlotPolicy struct {
	Supplier func() interface{}            // fresh value per child
	Copy     func(interface{}) interface{} // deep-copy function
}

// Cloneable is implemented by context values that know how to clone
// themselves; ContextMap.Inherit uses it only for a slot whose policy has
// neither a Supplier nor a Copy function.
type Cloneable interface {
	Clone() interface{}
}

// ContextMap is the per-invocation inheritable context (spec §4.G).
// Policies are declared once per slot name and apply to every descendant
// spawn from that point on.
type ContextMap struct {
	mu       sync.RWMutex
	values   map[string]interface{}
	policies map[string]SlotPolicy
}

// NewContextMap creates an empty root context map.
func NewContextMap() *ContextMap {
	return &ContextMap{values: map[string]interface{}{}, policies: map[string]SlotPolicy{}}
}

// Declare registers (or replaces) the inheritance policy for slot name.
func (c *ContextMap) Declare(name string, policy SlotPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[name] = policy
}

// Set stores a value directly into the current context (no policy
// applied; policies only run across a spawn boundary).
func (c *ContextMap) Set(name string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = v
}

// Get reads a slot's current value.
func (c *ContextMap) Get(name string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Inherit produces the ContextMap a child task/actor should start with,
// applying each slot's declared policy: supplier wins first, then Copy,
// then Cloneable, else the parent's reference is shared verbatim.
func (c *ContextMap) Inherit() *ContextMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	child := NewContextMap()
	for name, policy := range c.policies {
		child.policies[name] = policy
	}
	for name, v := range c.values {
		policy, hasPolicy := c.policies[name]
		switch {
		case hasPolicy && policy.Supplier != nil:
			child.values[name] = policy.Supplier()
		case hasPolicy && policy.Copy != nil:
			child.values[name] = policy.Copy(v)
		default:
			if cl, ok := v.(Cloneable); ok {
				child.values[name] = cl.Clone()
			} else {
				child.values[name] = v
			}
		}
	}
	return child
}

// ---------------------------------------------------------------------
// Structured-concurrency scope regions (spec §4.G "Scope block")
// ---------------------------------------------------------------------

// Region is a `scope [ordered] { … }` structured-concurrency block: every
// Task spawned lexically inside it must complete or cancel before the
// region's Wait returns. An error from any child cancels the rest.
type Region struct {
	Ordered bool
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	tasks   []*Task
	errOnce sync.Once
	err     error
}

// NewRegion creates a scope region whose cancellation is a child of
// parent's — cancelling an enclosing region cancels every nested one
// (SPEC_FULL.md's cancellation-propagation supplement).
func NewRegion(parent context.Context, ordered bool) *Region {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Region{Ordered: ordered, ctx: ctx, cancel: cancel}
}

// Context is the cancellation context children spawned in this region
// should inherit.
func (r *Region) Context() context.Context { return r.ctx }

// Track registers t as spawned within this region.
func (r *Region) Track(t *Task) {
	r.mu.Lock()
	r.tasks = append(r.tasks, t)
	r.mu.Unlock()
}

// Wait blocks until every tracked task completes (in spawn order if
// Ordered, else in whatever order each finishes), cancelling the rest of
// the region the first time any child fails. It returns the first error
// observed, or nil if every task succeeded.
func (r *Region) Wait() error {
	r.mu.Lock()
	tasks := append([]*Task(nil), r.tasks...)
	r.mu.Unlock()

	fail := func(err error) {
		r.errOnce.Do(func() {
			r.err = err
			r.cancel()
		})
	}

	if r.Ordered {
		for _, t := range tasks {
			_, err := t.Await(context.Background())
			if err != nil {
				fail(err)
			}
		}
	} else {
		var wg sync.WaitGroup
		for _, t := range tasks {
			wg.Add(1)
			go func(t *Task) {
				defer wg.Done()
				if _, err := t.Await(context.Background()); err != nil {
					fail(err)
				}
			}(t)
		}
		wg.Wait()
	}
	return r.err
}

// Cancel cancels every task spawned in the region, whether or not Wait
// has been called yet.
func (r *Region) Cancel() { r.cancel() }

// ---------------------------------------------------------------------
// Channels (spec §4.G "Channels")
// ---------------------------------------------------------------------

// Channel is a typed FIFO queue backed by an internal slice under a mutex
// and condition variable. Capacity 0 means unbounded; capacity > 0 bounds
// the queue, so Send blocks while it is full, like the native `chan` the
// teacher's WorkerPool builds its Jobs/Results queues from.
type Channel struct {
	ID       string
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []interface{}
	capacity int
	closed   bool
}

// NewChannel creates a channel with the given bounded capacity (0 for
// unbounded).
func NewChannel(capacity int) *Channel {
	c := &Channel{ID: uuid.NewString(), capacity: capacity}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send enqueues v, blocking while a bounded channel is full. Sending on a
// closed channel raises ErrChannelClosed.
func (c *Channel) Send(ctx context.Context, v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if c.closed {
			return ErrChannelClosed
		}
		if c.capacity <= 0 || len(c.buf) < c.capacity {
			c.buf = append(c.buf, v)
			c.cond.Broadcast()
			return nil
		}
		if waitOrCancel(ctx, c.cond, &c.mu) {
			return ErrCancelled
		}
	}
}

// Receive dequeues the oldest value, blocking while empty. Receiving on a
// closed, drained channel returns (nil, false) (the caller maps this to
// the None value, spec §4.G).
func (c *Channel) Receive(ctx context.Context) (interface{}, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if len(c.buf) > 0 {
			v := c.buf[0]
			c.buf = c.buf[1:]
			c.cond.Broadcast()
			return v, true, nil
		}
		if c.closed {
			return nil, false, nil
		}
		if waitOrCancel(ctx, c.cond, &c.mu) {
			return nil, false, ErrCancelled
		}
	}
}

// Close marks the channel closed; queued values already sent remain
// receivable until drained.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cond.Broadcast()
}

// waitOrCancel waits on cond (with mu already held) until woken, polling
// ctx for cancellation. It returns true if ctx was cancelled first.
func waitOrCancel(ctx context.Context, cond *sync.Cond, mu *sync.Mutex) bool {
	if ctx == nil {
		cond.Wait()
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	woke := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			mu.Lock()
			cond.Broadcast()
			mu.Unlock()
		case <-woke:
		}
	}()
	cond.Wait()
	close(woke)
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------
// Actors (spec §4.G "Actors")
// ---------------------------------------------------------------------

// Message is one inbox entry: a payload plus an optional reply channel
// for request/response patterns built atop plain sends.
type Message struct {
	Payload interface{}
	Reply   chan interface{}
}

// Actor owns private state behind a single-threaded processing loop: its
// Handler runs on exactly one goroutine, so it needs no internal locking
// around the state it closes over (spec §4.G).
type Actor struct {
	ID     string
	inbox  *Channel
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewActor starts an actor's processing loop. handler is invoked once per
// inbox message, in inbox order, on a dedicated goroutine; it receives
// the actor's own state pointer (opaque to this package) and the message
// payload, returning the (possibly mutated) state.
func NewActor(parent context.Context, initialState interface{}, handler func(state, msg interface{}) interface{}) *Actor {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	a := &Actor{
		ID:     uuid.NewString(),
		inbox:  NewChannel(0),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		state := initialState
		for {
			v, ok, err := a.inbox.Receive(ctx)
			if err != nil || !ok {
				return
			}
			msg := v.(Message)
			state = handler(state, msg.Payload)
		}
	}()
	return a
}

// Send enqueues msg into the actor's inbox (`A <- msg`, spec §4.G).
func (a *Actor) Send(payload interface{}) error {
	return a.inbox.Send(a.ctx, Message{Payload: payload})
}

// Stop closes the actor's inbox and cancels its loop.
func (a *Actor) Stop() {
	a.inbox.Close()
	a.cancel()
}

// Done reports when the actor's processing loop has exited.
func (a *Actor) Done() <-chan struct{} { return a.done }
