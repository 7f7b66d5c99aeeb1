package nav

import (
	"log/slog"
	"time"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
)

// Config tunes a Manager. The zero value is usable.
type Config struct {
	// GuardWindow is how long a programmatic move may stay unsettled before
	// it is dropped. Zero means constants.DefaultGuardWindow, negative never drops.
	GuardWindow time.Duration
	Logger      *slog.Logger     // defaults to the internal logger
	Now         func() time.Time // defaults to time.Now
}

type moveKind int

const (
	moveClose moveKind = iota
	moveBackTo
	moveClear
)

func (k moveKind) String() string {
	switch k {
	case moveClose:
		return "close"
	case moveBackTo:
		return "back_to"
	case moveClear:
		return "clear"
	default:
		return "unknown"
	}
}

// pendingMove is a Go request the manager issued whose notification has not
// arrived yet.
type pendingMove struct {
	token  uint64 // markers pushed before the move carry smaller tokens
	expect int    // landing depth of the notification this move produces
	kind   moveKind
	issued time.Time
}

// Manager keeps the overlay stack and the host history in step.
//
// A Manager is not safe for concurrent use. Call it, and deliver host
// notifications to it, from the goroutine running the UI event loop.
type Manager struct {
	history     History
	stack       *Stack
	pending     []pendingMove
	processing  bool
	guardWindow time.Duration
	now         func() time.Time
	logger      *slog.Logger
	tokens      uint64
	unsubscribe func()
}

// New creates a Manager on top of history and subscribes to its
// notifications. Each Manager holds exactly one subscription.
func New(history History, cfg Config) *Manager {
	m := &Manager{
		history:     history,
		stack:       NewStack(),
		guardWindow: cfg.GuardWindow,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
	if m.guardWindow == 0 {
		m.guardWindow = constants.DefaultGuardWindow
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = internal.GetInternalLogger()
	}

	m.unsubscribe = history.Subscribe(m.HandleNotification)
	return m
}

// Detach drops the host subscription and resets all state. Host history is
// left where it is.
func (m *Manager) Detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.Clear()
}

// Register opens an overlay and pushes one history position for it.
//
// Registering an id that is already open only refreshes its callbacks; an
// entry of the other kind takes the old one's place in the stack.
// The returned cleanup removes the entry without touching history; use it
// for unmount cleanup after a close path has already consumed the position.
func (m *Manager) Register(e Entry) (cleanup func()) {
	id := e.ID()
	if i := m.stack.IndexOf(id); i >= 0 {
		existing := m.stack.At(i)
		if !refresh(existing, e) {
			m.stack.Set(i, e)
			m.logger.Debug("Overlay re-registered as a different kind", "id", id)
			return m.cleanupFor(e)
		}
		m.logger.Debug("Overlay re-registered", "id", id)
		return m.cleanupFor(existing)
	}

	if !m.push(e) {
		return func() {}
	}
	return m.cleanupFor(e)
}

// Unregister removes the entry registered under id without touching history.
func (m *Manager) Unregister(id string) {
	if m.stack.Remove(id) {
		m.logger.Debug("Overlay unregistered", "id", id)
	}
}

func (m *Manager) cleanupFor(e Entry) func() {
	return func() {
		// A later registration under the same id is a different overlay.
		if m.stack.Get(e.ID()) == e {
			m.Unregister(e.ID())
		}
	}
}

// PushStep advances a multi-step overlay to phase. Pushing a phase that is
// already open only refreshes its callbacks.
func (m *Manager) PushStep(baseID string, phase int, onStepChange func(phase int), onClose func()) {
	m.Register(&Step{
		BaseID:       baseID,
		Phase:        phase,
		OnStepChange: onStepChange,
		OnClose:      onClose,
	})
}

// UpdateTopCallbacks replaces the non-nil callbacks of the top entry.
func (m *Manager) UpdateTopCallbacks(onStepChange func(phase int), onClose func()) {
	switch top := m.stack.Peek().(type) {
	case *Step:
		if onStepChange != nil {
			top.OnStepChange = onStepChange
		}
		if onClose != nil {
			top.OnClose = onClose
		}
	case *Simple:
		if onClose != nil {
			top.OnClose = onClose
		}
	}
}

// Replace swaps the top overlay for e at the same depth, replacing the
// current history marker instead of pushing a new position.
func (m *Manager) Replace(e Entry) {
	top := m.stack.Peek()
	if top == nil {
		m.Register(e)
		return
	}

	id := e.ID()
	if top.ID() == id {
		if !refresh(top, e) {
			m.stack.Set(m.stack.Len()-1, e)
		}
		return
	}
	if m.stack.Get(id) != nil {
		m.logger.Warn("Replace target already open below the top", "id", id, "top", top.ID())
		return
	}

	marker := m.marker(id, m.stack.Len())
	if err := m.history.Replace(marker); err != nil {
		m.hostFailed("replace", err)
		return
	}
	m.stack.Pop()
	m.stack.Push(e)
	m.logger.Debug("Overlay replaced", "from", top.ID(), "to", id, "depth", marker.Depth)
}

// Back asks the host to move back one position. The stack changes when the
// resulting notification arrives.
func (m *Manager) Back() {
	if m.stack.IsEmpty() {
		return
	}
	if err := m.history.Go(-1); err != nil {
		m.hostFailed("go", err)
	}
}

// BackTo closes every overlay above id with a single history move, giving
// each one the callback a back action would have given it. An unknown id
// closes everything.
func (m *Manager) BackTo(id string) {
	index := m.stack.IndexOf(id)
	if index < 0 {
		m.BackToRoot()
		return
	}
	m.backTo(index)
}

// BackToRoot closes every overlay with a single history move.
func (m *Manager) BackToRoot() {
	m.backTo(-1)
}

func (m *Manager) backTo(index int) {
	count := m.stack.Len() - index - 1
	if count <= 0 {
		return
	}

	removed := m.stack.Truncate(index + 1)
	m.move(-count, moveBackTo)

	for i := len(removed) - 1; i >= 0; i-- {
		m.settle(removed[i], beneath(m.stack.entries, removed[:i]))
	}
}

// Close removes id and everything above it right away and moves the host
// back past their positions in one operation. Unless skipOnClose is set,
// the OnClose of id itself is called; entries above it are never notified.
func (m *Manager) Close(id string, skipOnClose bool) {
	m.closeFrom(m.stack.IndexOf(id), skipOnClose)
}

// CloseAllByPrefix behaves like Close starting at the lowest entry that is
// prefix itself or one of its phases, collapsing a whole wizard at once.
func (m *Manager) CloseAllByPrefix(prefix string, skipOnClose bool) {
	m.closeFrom(m.stack.IndexFunc(func(e Entry) bool {
		return belongsTo(e, prefix)
	}), skipOnClose)
}

func (m *Manager) closeFrom(index int, skipOnClose bool) {
	if index < 0 {
		return
	}

	removed := m.stack.Truncate(index)
	if len(removed) == 0 {
		return
	}
	m.move(-len(removed), moveClose)
	m.logger.Debug("Overlays closed programmatically", "from", removed[0].ID(), "count", len(removed))

	if !skipOnClose {
		if fn := onCloseOf(removed[0]); fn != nil {
			m.guarded(fn)
		}
	}
}

// ClearAndNavigate closes every overlay without callbacks and moves the host
// back past all of their positions.
func (m *Manager) ClearAndNavigate() {
	count := m.stack.Len()
	m.stack.Clear()
	if count == 0 {
		return
	}
	m.move(-count, moveClear)
}

// Clear resets the manager without touching host history. The manager and
// the host may disagree afterwards; intended for tests and emergencies.
func (m *Manager) Clear() {
	m.stack.Clear()
	m.pending = nil
	m.processing = false
}

// HandleNotification reconciles one host position change against the stack.
// It is subscribed to the host by New and is exported for hosts that deliver
// notifications by hand.
func (m *Manager) HandleNotification(n Notification) {
	if m.processing {
		m.logger.Debug("Notification ignored while a callback runs", "depth", n.Depth())
		return
	}

	m.expirePending()

	landed := n.Depth()
	if len(m.pending) > 0 {
		head := m.pending[0]
		if landed == head.expect && (n.Marker == nil || n.Marker.Token < head.token) {
			m.pending = m.pending[1:]
			m.logger.Debug("Programmatic move settled", "kind", head.kind.String(), "token", head.token, "depth", landed)
			return
		}

		// A user back reached the host before our moves did; they will
		// land one position lower than planned.
		for i := range m.pending {
			if m.pending[i].expect > 0 {
				m.pending[i].expect--
			}
		}
		m.logger.Debug("User back arrived ahead of programmatic moves", "depth", landed, "pending", len(m.pending))
	}

	if m.stack.IsEmpty() {
		return
	}
	if len(m.pending) == 0 && landed >= m.stack.Len() {
		m.logger.Warn("Host is not below the overlay stack", "depth", landed, "stack", m.stack.Len())
		return
	}

	top := m.stack.Pop()
	m.settle(top, m.stack.entries)
}

// settle gives a just-removed top entry its back-action callback. rest is
// what sat beneath it, bottom first.
func (m *Manager) settle(top Entry, rest []Entry) {
	if step, ok := top.(*Step); ok && step.Phase > 1 {
		if prev := find(rest, StepID(step.BaseID, step.Phase-1)); prev != nil {
			m.logger.Debug("Overlay stepped back", "id", step.BaseID, "phase", step.Phase-1)
			if p, ok := prev.(*Step); ok && p.OnStepChange != nil {
				m.guarded(func() { p.OnStepChange(step.Phase - 1) })
			}
			return
		}
	}

	m.logger.Debug("Overlay closed by back", "id", top.ID())
	if fn := onCloseOf(top); fn != nil {
		m.guarded(fn)
	}
}

func (m *Manager) guarded(fn func()) {
	prev := m.processing
	m.processing = true
	defer func() { m.processing = prev }()
	fn()
}

func (m *Manager) push(e Entry) bool {
	marker := m.marker(e.ID(), m.stack.Len()+1)
	if err := m.history.Push(marker); err != nil {
		m.hostFailed("push", err)
		return false
	}
	m.stack.Push(e)
	m.logger.Debug("Overlay opened", "id", marker.ID, "depth", marker.Depth)
	return true
}

// move issues one Go request for a stack splice that has already happened.
func (m *Manager) move(delta int, kind moveKind) {
	p := pendingMove{
		token:  m.nextToken(),
		expect: m.stack.Len(),
		kind:   kind,
		issued: m.now(),
	}
	m.pending = append(m.pending, p)

	if err := m.history.Go(delta); err != nil {
		m.pending = m.pending[:len(m.pending)-1]
		m.hostFailed("go", err)
		return
	}
	m.logger.Debug("Programmatic move issued", "kind", kind.String(), "delta", delta, "token", p.token)
}

func (m *Manager) expirePending() {
	if m.guardWindow < 0 || len(m.pending) == 0 {
		return
	}

	now := m.now()
	kept := m.pending[:0]
	for _, p := range m.pending {
		if now.Sub(p.issued) > m.guardWindow {
			m.logger.Warn("Dropping unsettled programmatic move", "kind", p.kind.String(), "token", p.token, "expect", p.expect)
			continue
		}
		kept = append(kept, p)
	}
	m.pending = kept
}

func (m *Manager) marker(id string, depth int) *Marker {
	return &Marker{ID: id, Depth: depth, Token: m.nextToken()}
}

func (m *Manager) nextToken() uint64 {
	m.tokens++
	return m.tokens
}

func (m *Manager) hostFailed(op string, err error) {
	m.logger.Error("History host failed", "error", &HostError{Op: op, Err: err})
}

// IsOpen reports whether id is on the stack.
func (m *Manager) IsOpen(id string) bool {
	return m.stack.IndexOf(id) >= 0
}

// IsTop reports whether id is the top of the stack.
func (m *Manager) IsTop(id string) bool {
	top := m.stack.Peek()
	return top != nil && top.ID() == id
}

// StackIDs returns the open ids, bottom first.
func (m *Manager) StackIDs() []string {
	return m.stack.IDs()
}

// Len returns the number of open entries.
func (m *Manager) Len() int {
	return m.stack.Len()
}

// IsProcessing reports whether a close or step callback is running.
func (m *Manager) IsProcessing() bool {
	return m.processing
}

// IsClosingProgrammatically reports whether a move issued by the manager is
// still waiting for its notification.
func (m *Manager) IsClosingProgrammatically() bool {
	if m.guardWindow < 0 {
		return len(m.pending) > 0
	}
	now := m.now()
	for _, p := range m.pending {
		if now.Sub(p.issued) <= m.guardWindow {
			return true
		}
	}
	return false
}

func find(entries []Entry, id string) Entry {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID() == id {
			return entries[i]
		}
	}
	return nil
}

func beneath(stack, removed []Entry) []Entry {
	out := make([]Entry, 0, len(stack)+len(removed))
	out = append(out, stack...)
	return append(out, removed...)
}
