// Package nav keeps a stack of open overlays in step with a host's linear
// navigation history.
//
// Every overlay that registers gets exactly one history position, so the
// host's back action (a hardware button, a gesture, a software back button)
// lands on the position below it. The Manager hears about that through the
// host's single position-changed notification and closes its own top of
// stack in response. It never trusts the notification to say which overlay
// should close.
//
// # Basic Usage
//
//	history := memhistory.New()
//	m := nav.New(history, nav.Config{})
//
//	cleanup := m.Register(&nav.Simple{
//	    Key:     "confirm-delete",
//	    OnClose: func() { showConfirm = false },
//	})
//	defer cleanup()
//
//	// Back button pressed: the host moves, the notification closes the modal.
//	history.Back()
//	history.Dispatch()
//
// # Multi-step overlays
//
// A wizard registers each phase with PushStep. Phase 1 lives under the bare
// base id, phase N under StepID(base, N). A back action on phase N > 1 pops
// that phase and calls the OnStepChange of phase N-1 instead of closing:
//
//	m.PushStep("checkout", 1, setPhase, closeCheckout)
//	m.PushStep("checkout", 2, setPhase, closeCheckout)
//	// back -> setPhase(1)
//
// CloseAllByPrefix("checkout", true) collapses every phase at once, for
// example after the wizard has been submitted.
//
// # Programmatic moves
//
// Close, CloseAllByPrefix, BackTo, BackToRoot and ClearAndNavigate change the
// stack immediately and move the host back with a single Go call. The
// notification that move produces arrives later; the Manager recognises it by
// its landing depth and does not apply it a second time.
package nav
