package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
)

type fakeDevice struct {
	events    chan *evdev.InputEvent
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		events: make(chan *evdev.InputEvent, 16),
		done:   make(chan struct{}),
	}
}

func (d *fakeDevice) ReadOne() (*evdev.InputEvent, error) {
	select {
	case ev := <-d.events:
		return ev, nil
	case <-d.done:
		return nil, errors.New("device closed")
	}
}

func (d *fakeDevice) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	return nil
}

func (d *fakeDevice) key(code evdev.EvCode, value int32) {
	d.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

type countingBacker struct {
	calls *atomic.Int64
}

func (b countingBacker) Back() error {
	b.calls.Inc()
	return nil
}

func newTestListener(dev *fakeDevice, host Backer) *EvdevListener {
	l := NewEvdevListener("/dev/input/test", DefaultEvdevMapping(false), host)
	l.Debounce = 0
	l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	l.open = func(string) (eventSource, error) { return dev, nil }
	return l
}

func TestTranslate(t *testing.T) {
	m := DefaultEvdevMapping(false)

	tests := []struct {
		name string
		ev   *evdev.InputEvent
		want *Event
	}{
		{"back press", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 1}, &Event{Button: constants.VirtualButtonB, Pressed: true}},
		{"back release", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ESC, Value: 0}, &Event{Button: constants.VirtualButtonB}},
		{"autorepeat", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 2}, nil},
		{"not a key", &evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_X, Value: 1}, nil},
		{"unmapped", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_Q, Value: 1}, nil},
		{"south face button", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.BTN_SOUTH, Value: 1}, &Event{Button: constants.VirtualButtonB, Pressed: true}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, m.Translate(tt.ev))
		})
	}
}

func TestFlippedFaceButtons(t *testing.T) {
	m := DefaultEvdevMapping(true)

	require.Equal(t, constants.VirtualButtonA, m[evdev.BTN_SOUTH])
	require.Equal(t, constants.VirtualButtonB, m[evdev.BTN_EAST])
}

func TestParseEvdevKeys(t *testing.T) {
	codes, err := ParseEvdevKeys([]string{"key_back", " BTN_SELECT "})
	require.NoError(t, err)
	require.Equal(t, []evdev.EvCode{evdev.KEY_BACK, evdev.BTN_SELECT}, codes)

	codes, err = ParseEvdevKeys([]string{"BTN_TL", "KEY_HOME", "BTN_MODE"})
	require.NoError(t, err)
	require.Equal(t, []evdev.EvCode{evdev.BTN_TL, evdev.KEY_HOME, evdev.BTN_MODE}, codes)

	_, err = ParseEvdevKeys([]string{"KEY_NOPE"})
	require.ErrorContains(t, err, "KEY_NOPE")
}

func TestWithBackKeysCopies(t *testing.T) {
	base := DefaultEvdevMapping(false)
	m := base.WithBackKeys([]evdev.EvCode{evdev.BTN_SELECT})

	require.Equal(t, constants.VirtualButtonB, m[evdev.BTN_SELECT])
	_, ok := base[evdev.BTN_SELECT]
	require.False(t, ok)
}

func TestListenerForwardsBackPresses(t *testing.T) {
	dev := newFakeDevice()
	host := countingBacker{calls: atomic.NewInt64(0)}
	l := newTestListener(dev, host)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	dev.key(evdev.KEY_BACK, 1)
	dev.key(evdev.KEY_BACK, 2)
	dev.key(evdev.KEY_BACK, 0)
	dev.key(evdev.KEY_ENTER, 1)
	dev.key(evdev.KEY_ESC, 1)

	require.Eventually(t, func() bool { return host.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	require.True(t, l.Running())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
	require.False(t, l.Running())
	require.Equal(t, int64(2), l.Presses())
}

func TestListenerDebounce(t *testing.T) {
	dev := newFakeDevice()
	host := countingBacker{calls: atomic.NewInt64(0)}
	l := newTestListener(dev, host)
	l.Debounce = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	dev.key(evdev.KEY_BACK, 1)
	dev.key(evdev.KEY_BACK, 0)
	dev.key(evdev.KEY_BACK, 1)

	require.Eventually(t, func() bool { return len(dev.events) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.Equal(t, int64(1), host.calls.Load())
}

func TestListenerReadError(t *testing.T) {
	dev := newFakeDevice()
	l := newTestListener(dev, countingBacker{calls: atomic.NewInt64(0)})
	require.NoError(t, dev.Close())

	err := l.Run(context.Background())
	require.ErrorContains(t, err, "device closed")
}

func TestListenerOpenError(t *testing.T) {
	l := newTestListener(nil, countingBacker{calls: atomic.NewInt64(0)})
	l.open = func(string) (eventSource, error) { return nil, errors.New("permission denied") }

	err := l.Run(context.Background())
	require.ErrorContains(t, err, "permission denied")
	require.False(t, l.Running())
}
