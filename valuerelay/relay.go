package valuerelay

import (
	"context"
	"sync"
	"time"
)

// State is a snapshot of the relay's observable value. IsInitial is true until
// the first successful refresh has been applied.
type State[T any] struct {
	Value     T
	IsInitial bool
}

// RefreshError describes a failed refresh attempt. It is advisory only; the
// relay's value is left unchanged by a failure.
type RefreshError struct {
	Err  error
	Time time.Time
}

// FetchFunc is a refresh source: a caller-supplied operation that produces a
// new value, typically by performing a network request. The context is
// cancelled when the polling loop that issued the call is cancelled or
// superseded; the fetch may ignore this and let its result be discarded
// instead. The relay has no built-in timeout, so a fetch that can block
// indefinitely should apply its own.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// CancelFunc stops a polling loop started with Relay.StartPolling. It is safe
// to call more than once. A refresh already in flight when CancelFunc is
// invoked is allowed to settle, but its result is discarded.
type CancelFunc func()

// Relay presents a single current value to any number of readers, sourced
// first from a caller-supplied initial value and then kept fresh by a polling
// loop. It has exactly one writer at a time: the most recently started polling
// loop.
type Relay[T any] struct {
	lock      sync.RWMutex
	state     State[T]
	lastError *RefreshError
	pollerGen int
	active    *poller[T]
	stateSubs map[chan State[T]]struct{}
	errorSubs map[chan RefreshError]struct{}
}

// New creates a Relay holding the given initial value. The relay is immediately
// readable; Current returns the initial value with IsInitial set until a
// refresh succeeds.
func New[T any](initial T) *Relay[T] {
	return &Relay[T]{
		state:     State[T]{Value: initial, IsInitial: true},
		stateSubs: make(map[chan State[T]]struct{}),
		errorSubs: make(map[chan RefreshError]struct{}),
	}
}

// Current returns the latest state. It never blocks.
func (r *Relay[T]) Current() State[T] {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state
}

// LastError returns the most recent refresh failure, if any has occurred since
// the relay was created.
func (r *Relay[T]) LastError() (RefreshError, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.lastError == nil {
		return RefreshError{}, false
	}
	return *r.lastError, true
}

// ReSeed replaces the value while the relay is still serving its initial
// value, and reports whether the replacement happened. Once any refresh has
// succeeded, ReSeed does nothing; the polling loop is the only writer from
// then on. This exists so that an initial-value producer whose precomputed
// snapshot changes can keep the pre-refresh value current.
func (r *Relay[T]) ReSeed(value T) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.state.IsInitial {
		return false
	}
	r.state = State[T]{Value: value, IsInitial: true}
	r.notifyStateLocked()
	return true
}

// StartPolling begins issuing fetch repeatedly. The first call starts one
// interval after StartPolling returns, and each subsequent call starts one
// interval after the previous call settled, so slow fetches cannot pile up.
// A successful fetch replaces the relay's value and clears IsInitial; a failed
// fetch is reported through the error subscription channels and LastError but
// leaves the value untouched, and the next attempt happens on the normal
// schedule.
//
// If StartPolling is called again on the same relay, the new loop supersedes
// the old one: the old loop stops scheduling, any result it still has in
// flight is discarded, and invoking its CancelFunc afterwards is a no-op.
func (r *Relay[T]) StartPolling(interval time.Duration, fetch FetchFunc[T]) CancelFunc {
	ctx, cancelCtx := context.WithCancel(context.Background())
	p := &poller[T]{
		relay:     r,
		interval:  interval,
		fetch:     fetch,
		ctx:       ctx,
		cancelCtx: cancelCtx,
		quit:      make(chan struct{}),
	}

	r.lock.Lock()
	r.pollerGen++
	p.gen = r.pollerGen
	prev := r.active
	r.active = p
	r.lock.Unlock()

	// Bumping pollerGen already guarantees the old loop's results are
	// discarded; stopping it as well just ends its scheduling promptly.
	if prev != nil {
		prev.stop()
	}

	go p.run()
	return p.stop
}

// Subscribe returns a channel that receives the relay's state after each
// mutation, plus a function that releases the subscription. The channel is
// level-triggered with capacity one: if the subscriber falls behind, older
// states are dropped so that only the most recent one is delivered. Writes to
// it never block the relay.
func (r *Relay[T]) Subscribe() (<-chan State[T], func()) {
	ch := make(chan State[T], 1)
	r.lock.Lock()
	r.stateSubs[ch] = struct{}{}
	r.lock.Unlock()
	release := func() {
		r.lock.Lock()
		delete(r.stateSubs, ch)
		r.lock.Unlock()
	}
	return ch, release
}

// SubscribeErrors is the advisory side channel for refresh failures. It has
// the same latest-wins, non-blocking delivery as Subscribe.
func (r *Relay[T]) SubscribeErrors() (<-chan RefreshError, func()) {
	ch := make(chan RefreshError, 1)
	r.lock.Lock()
	r.errorSubs[ch] = struct{}{}
	r.lock.Unlock()
	release := func() {
		r.lock.Lock()
		delete(r.errorSubs, ch)
		r.lock.Unlock()
	}
	return ch, release
}

func (r *Relay[T]) applyRefresh(p *poller[T], value T) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.pollerGen != p.gen || p.stopped() {
		return // superseded or cancelled while the fetch was in flight
	}
	r.state = State[T]{Value: value, IsInitial: false}
	r.notifyStateLocked()
}

func (r *Relay[T]) recordFailure(p *poller[T], err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.pollerGen != p.gen || p.stopped() {
		return
	}
	re := RefreshError{Err: err, Time: time.Now()}
	r.lastError = &re
	for ch := range r.errorSubs {
		replaceBuffered(ch, re)
	}
}

func (r *Relay[T]) notifyStateLocked() {
	for ch := range r.stateSubs {
		replaceBuffered(ch, r.state)
	}
}

func (r *Relay[T]) detachPoller(p *poller[T]) {
	r.lock.Lock()
	if r.active == p {
		r.active = nil
	}
	r.lock.Unlock()
}

// replaceBuffered delivers v to a capacity-1 channel, displacing an
// undelivered older item if there is one.
func replaceBuffered[V any](ch chan V, v V) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

type poller[T any] struct {
	relay     *Relay[T]
	gen       int
	interval  time.Duration
	fetch     FetchFunc[T]
	ctx       context.Context
	cancelCtx context.CancelFunc
	quit      chan struct{}
	closeOnce sync.Once
}

func (p *poller[T]) run() {
	for {
		timer := time.NewTimer(p.interval)
		select {
		case <-p.quit:
			timer.Stop()
			return
		case <-timer.C:
		}

		value, err := p.fetch(p.ctx)
		if err != nil {
			p.relay.recordFailure(p, err)
		} else {
			p.relay.applyRefresh(p, value)
		}
		// The next timer starts only now, so the interval is measured from the
		// completion of one fetch to the start of the next.
	}
}

func (p *poller[T]) stop() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.cancelCtx()
		p.relay.detachPoller(p)
	})
}

func (p *poller[T]) stopped() bool {
	select {
	case <-p.quit:
		return true
	default:
		return false
	}
}
