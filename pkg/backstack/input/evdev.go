package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
)

// Key event values reported by the kernel. Autorepeat reports 2.
const (
	keyReleased = 0
	keyPressed  = 1
)

// DefaultEvdevKeys are the key names bound to back when none are configured.
var DefaultEvdevKeys = []string{"KEY_BACK", "KEY_ESC"}

// EvdevMapping maps kernel key codes to virtual buttons.
type EvdevMapping map[evdev.EvCode]constants.VirtualButton

// DefaultEvdevMapping binds the keyboard back keys and the face buttons.
func DefaultEvdevMapping(flipFaceButtons bool) EvdevMapping {
	south, east := FaceButtons(flipFaceButtons)
	return EvdevMapping{
		evdev.KEY_BACK:  constants.VirtualButtonB,
		evdev.KEY_ESC:   constants.VirtualButtonB,
		evdev.KEY_ENTER: constants.VirtualButtonA,
		evdev.BTN_SOUTH: south,
		evdev.BTN_EAST:  east,
	}
}

// ParseEvdevKeys resolves kernel key names such as "KEY_BACK" or "BTN_TL"
// into codes.
func ParseEvdevKeys(names []string) ([]evdev.EvCode, error) {
	codes := make([]evdev.EvCode, 0, len(names))
	for _, name := range names {
		code, ok := evdev.KEYFromString[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("input: unknown evdev key %q", name)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// WithBackKeys returns a copy of m with every code in codes bound to back.
func (m EvdevMapping) WithBackKeys(codes []evdev.EvCode) EvdevMapping {
	out := make(EvdevMapping, len(m)+len(codes))
	for code, button := range m {
		out[code] = button
	}
	for _, code := range codes {
		out[code] = constants.VirtualButtonB
	}
	return out
}

// Translate converts a kernel event into a virtual button event. Autorepeat
// and unmapped events return nil.
func (m EvdevMapping) Translate(ev *evdev.InputEvent) *Event {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return nil
	}
	if ev.Value != keyPressed && ev.Value != keyReleased {
		return nil
	}
	button, ok := m[ev.Code]
	if !ok {
		return nil
	}
	return &Event{Button: button, Pressed: ev.Value == keyPressed}
}

// eventSource is the part of *evdev.InputDevice the listener reads from.
type eventSource interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// EvdevListener watches a Linux input device and performs a back gesture on
// the host each time the back button is pressed.
type EvdevListener struct {
	Path    string
	Mapping EvdevMapping
	Host    Backer

	// Debounce drops presses closer together than this.
	Debounce time.Duration

	open    func(path string) (eventSource, error)
	logger  *slog.Logger
	running *atomic.Bool
	presses *atomic.Int64
}

// NewEvdevListener creates a listener for the device at path.
func NewEvdevListener(path string, mapping EvdevMapping, host Backer) *EvdevListener {
	return &EvdevListener{
		Path:     path,
		Mapping:  mapping,
		Host:     host,
		Debounce: constants.DefaultInputDelay,
		open: func(path string) (eventSource, error) {
			return evdev.Open(path)
		},
		logger:  internal.GetInternalLogger(),
		running: atomic.NewBool(false),
		presses: atomic.NewInt64(0),
	}
}

// Run reads the device until ctx is done or the device fails. It blocks.
func (l *EvdevListener) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("input: evdev listener already running")
	}
	defer l.running.Store(false)

	dev, err := l.open(l.Path)
	if err != nil {
		return fmt.Errorf("input: open %s: %w", l.Path, err)
	}

	// ReadOne blocks; closing the device is the only way to unblock it.
	stop := context.AfterFunc(ctx, func() { _ = dev.Close() })
	defer func() {
		if stop() {
			_ = dev.Close()
		}
	}()

	l.logger.Debug("Listening for back button", "path", l.Path)

	var last time.Time
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input: read %s: %w", l.Path, err)
		}

		translated := l.Mapping.Translate(ev)
		if !IsBack(translated) {
			continue
		}

		now := time.Now()
		if !last.IsZero() && now.Sub(last) < l.Debounce {
			continue
		}
		last = now

		l.presses.Inc()
		l.logger.Debug("Back button pressed", "path", l.Path, "button", translated.Button.GetName(), "code", ev.Code)
		if err := l.Host.Back(); err != nil {
			l.logger.Error("Back gesture failed", "path", l.Path, "error", err)
		}
	}
}

// Running reports whether Run is active.
func (l *EvdevListener) Running() bool {
	return l.running.Load()
}

// Presses returns how many back presses were forwarded to the host.
func (l *EvdevListener) Presses() int64 {
	return l.presses.Load()
}
