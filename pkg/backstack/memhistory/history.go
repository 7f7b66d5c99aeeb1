// Package memhistory is an in-process navigation history host for nav.Manager.
//
// Positions form a single line starting at an unmarked base position.
// Push, Replace and Go take effect immediately; the position-changed
// notification they cause is queued and only delivered when the owning event
// loop calls Dispatch, mirroring a browser's popstate arriving on a later
// turn. Every method is safe for concurrent use, so input goroutines may call
// Back while the event loop dispatches.
package memhistory

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/backstack/pkg/backstack/nav"
)

// ErrClosed is returned by every mutating call after Close.
var ErrClosed = errors.New("memhistory: closed")

// History is a linear, in-memory navigation history.
type History struct {
	mu        sync.Mutex
	positions []*nav.Marker // positions[0] is the base and always nil
	current   int
	queue     []nav.Notification
	listeners map[uint64]func(nav.Notification)
	nextID    uint64

	wake   chan struct{}
	closed *atomic.Bool
	moves  *atomic.Int64
}

// New creates a history holding only the base position.
func New() *History {
	return &History{
		positions: []*nav.Marker{nil},
		listeners: make(map[uint64]func(nav.Notification)),
		wake:      make(chan struct{}, 1),
		closed:    atomic.NewBool(false),
		moves:     atomic.NewInt64(0),
	}
}

// Push adds a position above the current one. Forward positions are dropped.
// Like pushState, it produces no notification.
func (h *History) Push(marker *nav.Marker) error {
	if h.closed.Load() {
		return ErrClosed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.positions = append(h.positions[:h.current+1], marker)
	h.current++
	return nil
}

// Replace swaps the marker of the current position. Replacing the base
// position is an error.
func (h *History) Replace(marker *nav.Marker) error {
	if h.closed.Load() {
		return ErrClosed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == 0 {
		return errors.New("memhistory: cannot replace the base position")
	}
	h.positions[h.current] = marker
	return nil
}

// Go moves the current position by delta, clamped to the available
// positions, and queues one notification if the position changed.
func (h *History) Go(delta int) error {
	if h.closed.Load() {
		return ErrClosed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	target := h.current + delta
	if target < 0 {
		target = 0
	}
	if last := len(h.positions) - 1; target > last {
		target = last
	}
	if target == h.current {
		return nil
	}

	h.current = target
	h.moves.Inc()
	h.queue = append(h.queue, nav.Notification{Marker: h.positions[target]})

	select {
	case h.wake <- struct{}{}:
	default:
	}
	return nil
}

// Back simulates the user's back gesture.
func (h *History) Back() error {
	return h.Go(-1)
}

// Forward simulates the user's forward gesture.
func (h *History) Forward() error {
	return h.Go(1)
}

// Subscribe registers fn for notifications delivered by Dispatch.
func (h *History) Subscribe(fn func(nav.Notification)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Dispatch delivers every queued notification, in order, to the current
// subscribers and returns how many notifications it delivered. Notifications
// queued while dispatching are delivered by the next call.
func (h *History) Dispatch() int {
	h.mu.Lock()
	queue := h.queue
	h.queue = nil
	h.mu.Unlock()

	for _, n := range queue {
		for _, fn := range h.subscribers() {
			fn(n)
		}
	}
	return len(queue)
}

// Settle dispatches until no notifications remain queued.
func (h *History) Settle() int {
	total := 0
	for {
		n := h.Dispatch()
		if n == 0 {
			return total
		}
		total += n
	}
}

func (h *History) subscribers() []func(nav.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]uint64, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]func(nav.Notification), len(ids))
	for i, id := range ids {
		fns[i] = h.listeners[id]
	}
	return fns
}

// Wake is signalled whenever a notification is queued. It is buffered, so
// one receive may stand for several queued notifications.
func (h *History) Wake() <-chan struct{} {
	return h.wake
}

// Pending returns the number of queued, undelivered notifications.
func (h *History) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// Depth returns the index of the current position; 0 is the base.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Len returns the number of positions, base included.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.positions)
}

// Current returns the marker of the current position, nil at the base.
func (h *History) Current() *nav.Marker {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positions[h.current]
}

// Moves returns how many Go calls changed the position.
func (h *History) Moves() int64 {
	return h.moves.Load()
}

// Close makes every further mutating call fail with ErrClosed and drops
// queued notifications.
func (h *History) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = nil
	h.listeners = make(map[uint64]func(nav.Notification))
}
