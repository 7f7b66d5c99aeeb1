// Command backstack-demo drives the process-wide overlay manager from the
// terminal. Each input line is one action:
//
//	open <id>            register a modal
//	step <base> <phase>  push a wizard phase
//	replace <id>         swap the top modal
//	back                 software back
//	gesture              user back gesture on the host
//	backto <id>          go back until <id> is on top
//	root                 go back past every overlay
//	close <id>           close <id> and everything above it
//	prefix <base>        close a whole wizard
//	signout              clear and navigate
//	ls                   print the stack
//	quit
//
// With back_device set in the config file, a hardware back button works too.
// With --sdl, Escape and the controller back button are read through SDL.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
	"github.com/BrandonKowalski/backstack/pkg/backstack/input"
	"github.com/BrandonKowalski/backstack/pkg/backstack/input/sdlinput"
	"github.com/BrandonKowalski/backstack/pkg/backstack/nav"
)

func main() {
	err := newRootCommand().Execute()
	backstack.CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
		device     string
		withSDL    bool
	)

	cmd := &cobra.Command{
		Use:           "backstack-demo",
		Short:         "Open, step and close overlays against an in-memory history",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := backstack.Options{}
			if configPath != "" {
				loaded, err := backstack.LoadOptions(configPath)
				if err != nil {
					return err
				}
				opts = loaded
			}
			if logLevel != "" {
				opts.LogLevel = logLevel
			}
			if device != "" {
				opts.BackDevice = device
			}

			if err := backstack.Init(opts); err != nil {
				return err
			}
			defer backstack.Close()

			var pump func() bool
			if withSDL {
				// SDL must be polled from the thread that initialized it.
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()

				if err := sdlinput.Init(); err != nil {
					return err
				}
				defer sdlinput.Quit()

				backer, ok := backstack.Host().(input.Backer)
				if !ok {
					return fmt.Errorf("host has no back gesture")
				}
				mapping := sdlinput.DefaultMapping(opts.FlipFaceButtons)
				pump = func() bool { return sdlinput.Pump(backer, mapping) }
			}

			return run(cmd.InOrStdin(), cmd.OutOrStdout(), pump)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML options file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "application log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&device, "back-device", "", "evdev device with a hardware back button")
	cmd.Flags().BoolVar(&withSDL, "sdl", false, "read back presses from SDL keyboards and controllers")
	return cmd
}

// run reads commands from in until it ends or quit is entered. pump, when
// set, is polled every frame and returns true once the user asked to quit.
func run(in io.Reader, out io.Writer, pump func() bool) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readLines(in, lines, done)

	var frames <-chan time.Time
	if pump != nil {
		ticker := time.NewTicker(16 * time.Millisecond)
		defer ticker.Stop()
		frames = ticker.C
	}

	for {
		select {
		case <-frames:
			if pump() {
				return nil
			}
		case <-backstack.Wake():
			if backstack.Dispatch() > 0 {
				printStack(out)
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := handle(strings.Fields(line), out)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if quit {
				return nil
			}
		}
	}
}

// readLines sends each line of in to lines until in ends or done closes,
// then closes lines.
func readLines(in io.Reader, lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
}

func handle(args []string, out io.Writer) (quit bool, err error) {
	if len(args) == 0 {
		return false, nil
	}

	need := func(n int) error {
		if len(args) < n+1 {
			return fmt.Errorf("%s needs %d argument(s)", args[0], n)
		}
		return nil
	}

	switch args[0] {
	case "open":
		if err := need(1); err != nil {
			return false, err
		}
		id := args[1]
		backstack.Register(&nav.Simple{Key: id, OnClose: func() { fmt.Fprintf(out, "closed %s\n", id) }})
	case "step":
		if err := need(2); err != nil {
			return false, err
		}
		base := args[1]
		phase, err := strconv.Atoi(args[2])
		if err != nil {
			return false, fmt.Errorf("phase: %w", err)
		}
		backstack.PushStep(base, phase,
			func(p int) { fmt.Fprintf(out, "%s back to phase %d\n", base, p) },
			func() { fmt.Fprintf(out, "closed %s\n", base) })
	case "replace":
		if err := need(1); err != nil {
			return false, err
		}
		id := args[1]
		backstack.Replace(&nav.Simple{Key: id, OnClose: func() { fmt.Fprintf(out, "closed %s\n", id) }})
	case "back":
		backstack.Back()
	case "gesture":
		backer, ok := backstack.Host().(input.Backer)
		if !ok {
			return false, fmt.Errorf("host has no back gesture")
		}
		if err := backer.Back(); err != nil {
			return false, err
		}
	case "backto":
		if err := need(1); err != nil {
			return false, err
		}
		backstack.BackTo(args[1])
	case "root":
		backstack.BackToRoot()
	case "close":
		if err := need(1); err != nil {
			return false, err
		}
		backstack.CloseOverlay(args[1], false)
	case "prefix":
		if err := need(1); err != nil {
			return false, err
		}
		backstack.CloseAllByPrefix(args[1], true)
	case "signout":
		backstack.ClearAndNavigate()
	case "ls":
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}

	printStack(out)
	return false, nil
}

func printStack(out io.Writer) {
	ids := backstack.StackIDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, "stack: (empty)")
		return
	}
	fmt.Fprintf(out, "stack: %s\n", strings.Join(ids, " > "))
}
