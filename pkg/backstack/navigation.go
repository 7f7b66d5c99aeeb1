package backstack

import "github.com/BrandonKowalski/backstack/pkg/backstack/nav"

// Register opens an overlay on the process-wide manager.
// See nav.Manager.Register.
func Register(e nav.Entry) (cleanup func()) {
	return Default().Register(e)
}

// Unregister removes id without touching history.
func Unregister(id string) {
	Default().Unregister(id)
}

// PushStep advances a multi-step overlay to phase.
func PushStep(baseID string, phase int, onStepChange func(phase int), onClose func()) {
	Default().PushStep(baseID, phase, onStepChange, onClose)
}

// UpdateTopCallbacks refreshes the callbacks of the top overlay.
func UpdateTopCallbacks(onStepChange func(phase int), onClose func()) {
	Default().UpdateTopCallbacks(onStepChange, onClose)
}

// Replace swaps the top overlay for e at the same depth.
func Replace(e nav.Entry) {
	Default().Replace(e)
}

// Back performs a software back action.
func Back() {
	Default().Back()
}

// BackTo goes back until id is the top overlay.
func BackTo(id string) {
	Default().BackTo(id)
}

// BackToRoot goes back past every overlay.
func BackToRoot() {
	Default().BackToRoot()
}

// CloseOverlay closes id and everything above it right away.
func CloseOverlay(id string, skipOnClose bool) {
	Default().Close(id, skipOnClose)
}

// CloseAllByPrefix closes a whole multi-step overlay, whichever phase is open.
func CloseAllByPrefix(prefix string, skipOnClose bool) {
	Default().CloseAllByPrefix(prefix, skipOnClose)
}

// ClearAndNavigate closes every overlay without callbacks, e.g. on sign-out.
func ClearAndNavigate() {
	Default().ClearAndNavigate()
}

// IsOpen reports whether id is open.
func IsOpen(id string) bool {
	return Default().IsOpen(id)
}

// IsTop reports whether id is the top overlay.
func IsTop(id string) bool {
	return Default().IsTop(id)
}

// StackIDs returns the open overlay ids, bottom first.
func StackIDs() []string {
	return Default().StackIDs()
}

// Len returns the number of open overlays.
func Len() int {
	return Default().Len()
}
