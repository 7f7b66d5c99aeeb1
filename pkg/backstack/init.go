// Package backstack keeps an application's open overlays (modals, drawers,
// multi-step wizards) in step with a single navigation history, so that the
// back button closes the top overlay instead of leaving the screen.
//
// The package holds one process-wide nav.Manager. Init creates it; every
// package-level function lazily creates it with default Options if Init was
// never called. Close tears it down so a later Init starts fresh.
package backstack

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
	"github.com/BrandonKowalski/backstack/pkg/backstack/input"
	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
	"github.com/BrandonKowalski/backstack/pkg/backstack/memhistory"
	"github.com/BrandonKowalski/backstack/pkg/backstack/nav"
)

// Options configures the process-wide manager.
type Options struct {
	GuardWindow     time.Duration // how long a programmatic move may stay unsettled (default 1s)
	LogPath         string        // full path for the log file; empty logs to stdout only
	LogLevel        string        // application logger level ("debug", "info", "warn", "error")
	FlipFaceButtons bool          // use direct face button mapping (A=A, B=B) for the back button
	BackDevice      string        // evdev device with a hardware back button; empty disables it
	BackKeys        []string      // extra evdev key names bound to back, e.g. "BTN_SELECT"
	History         nav.History   // host history; nil uses an in-memory history
}

var (
	mu       sync.Mutex
	manager  *nav.Manager
	host     nav.History
	memHost  *memhistory.History // set when the host is owned by this package
	listener *input.EvdevListener

	stopListener context.CancelFunc
	listenerDone chan struct{}
)

// Init creates the process-wide manager. It must be called at most once
// before Close.
func Init(options Options) error {
	mu.Lock()
	defer mu.Unlock()

	if manager != nil {
		return ErrAlreadyInitialized
	}
	return initLocked(options)
}

func initLocked(options Options) error {
	applyEnv(&options)

	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if os.Getenv(constants.DebugEnvVar) != "" || constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}

	if options.LogLevel != "" {
		internal.SetRawLogLevel(options.LogLevel)
	}

	host = options.History
	if host == nil {
		memHost = memhistory.New()
		host = memHost
	}

	manager = nav.New(host, nav.Config{
		GuardWindow: options.GuardWindow,
		Logger:      internal.GetInternalLogger(),
	})

	if options.BackDevice != "" {
		if err := startListener(options); err != nil {
			internal.GetInternalLogger().Error("Hardware back button disabled", "device", options.BackDevice, "error", err)
		}
	}

	internal.GetInternalLogger().Debug("backstack initialized",
		"guard_window", options.GuardWindow.String(),
		"back_device", options.BackDevice,
		"in_memory_host", memHost != nil)
	return nil
}

func applyEnv(options *Options) {
	if v := os.Getenv(constants.BackDeviceEnvVar); v != "" {
		options.BackDevice = v
	}
	if os.Getenv(constants.FlipFaceButtonsEnvVar) != "" {
		options.FlipFaceButtons = true
	}
}

func startListener(options Options) error {
	backer, ok := host.(input.Backer)
	if !ok {
		return &ConfigError{Err: errHostCannotGoBack}
	}

	keys, err := input.ParseEvdevKeys(append(append([]string{}, input.DefaultEvdevKeys...), options.BackKeys...))
	if err != nil {
		return &ConfigError{Err: err}
	}

	mapping := input.DefaultEvdevMapping(options.FlipFaceButtons).WithBackKeys(keys)
	listener = input.NewEvdevListener(options.BackDevice, mapping, backer)

	ctx, cancel := context.WithCancel(context.Background())
	stopListener = cancel
	listenerDone = make(chan struct{})

	l, done := listener, listenerDone
	go func() {
		defer close(done)
		if err := l.Run(ctx); err != nil {
			internal.GetInternalLogger().Error("Back button listener stopped", "device", l.Path, "error", err)
		}
	}()
	return nil
}

// Close tears down the process-wide manager, its host subscription and the
// hardware back button listener. A later Init starts from an empty stack.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if stopListener != nil {
		stopListener()
		<-listenerDone
		stopListener, listenerDone, listener = nil, nil, nil
	}

	if manager != nil {
		manager.Detach()
		manager = nil
	}

	if memHost != nil {
		memHost.Close()
		memHost = nil
	}
	host = nil
}

// Default returns the process-wide manager, creating it with default
// Options on first use.
func Default() *nav.Manager {
	mu.Lock()
	defer mu.Unlock()

	if manager == nil {
		_ = initLocked(Options{})
	}
	return manager
}

// Host returns the history host the process-wide manager is bound to.
func Host() nav.History {
	Default()

	mu.Lock()
	defer mu.Unlock()
	return host
}

// Dispatch delivers queued notifications of the built-in in-memory host and
// returns how many were delivered. Call it from the UI event loop; it is a
// no-op when Options.History supplied a host of its own.
func Dispatch() int {
	Default()

	mu.Lock()
	h := memHost
	mu.Unlock()

	if h == nil {
		return 0
	}
	return h.Dispatch()
}

// Wake is signalled when the built-in in-memory host has notifications to
// dispatch. It returns nil for a host supplied through Options.History.
func Wake() <-chan struct{} {
	Default()

	mu.Lock()
	defer mu.Unlock()
	if memHost == nil {
		return nil
	}
	return memHost.Wake()
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// CloseLogger flushes and closes the log file set with SetLogPath.
// Call it once when the application exits.
func CloseLogger() {
	internal.CloseLogger()
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
